package wm

// Host is the owner side of the manager contract. The manager reads the
// current collection and interaction flags through it and reports every
// change back through the setters; it never keeps its own copy of the
// window list.
type Host interface {
	Windows() []Window
	FocusedID() ID
	SnapZonesVisible() bool
	DraggingID() ID

	SetWindows(windows []Window)
	SetFocusedID(id ID)
	SetSnapZonesVisible(visible bool)
	SetDraggingID(id ID)
}

var _ Host = (*Store)(nil)

// Store is the authoritative window collection. Windows keep their insertion
// order; every mutation swaps in a fresh snapshot, so slices handed out by
// Windows are never modified afterwards.
type Store struct {
	windows   []Window
	focused   ID
	snapZones bool
	dragging  ID
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Add appends a window to the collection.
func (s *Store) Add(w Window) error {
	if w.ID == "" {
		return ErrEmptyID
	}
	if indexOf(s.windows, w.ID) >= 0 {
		return ErrDuplicateID
	}
	next := make([]Window, 0, len(s.windows)+1)
	next = append(next, cloneWindows(s.windows)...)
	next = append(next, w.clone())
	s.windows = next
	return nil
}

// Remove deletes a window and clears any flag that pointed at it.
func (s *Store) Remove(id ID) bool {
	idx := indexOf(s.windows, id)
	if idx < 0 {
		return false
	}
	next := make([]Window, 0, len(s.windows)-1)
	for i, w := range s.windows {
		if i == idx {
			continue
		}
		next = append(next, w.clone())
	}
	s.windows = next
	if s.focused == id {
		s.focused = ""
	}
	if s.dragging == id {
		s.dragging = ""
		s.snapZones = false
	}
	return true
}

// Get returns a copy of the window with the given id.
func (s *Store) Get(id ID) (Window, bool) {
	idx := indexOf(s.windows, id)
	if idx < 0 {
		return Window{}, false
	}
	return s.windows[idx].clone(), true
}

// Len returns the number of open windows, minimized ones included.
func (s *Store) Len() int {
	return len(s.windows)
}

// Windows returns a copy of the collection in insertion order.
func (s *Store) Windows() []Window {
	return cloneWindows(s.windows)
}

func (s *Store) FocusedID() ID { return s.focused }

func (s *Store) SnapZonesVisible() bool { return s.snapZones }

func (s *Store) DraggingID() ID { return s.dragging }

// SetWindows replaces the collection.
func (s *Store) SetWindows(windows []Window) {
	s.windows = cloneWindows(windows)
}

func (s *Store) SetFocusedID(id ID) { s.focused = id }

func (s *Store) SetSnapZonesVisible(v bool) { s.snapZones = v }

func (s *Store) SetDraggingID(id ID) { s.dragging = id }
