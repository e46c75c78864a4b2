package termloom

// Frontend receives change notifications from a Grid. Notifications
// arrive while the owning Terminal's lock is held; implementations must
// not call back into the Terminal from one, they should mark state
// dirty and take a Render snapshot afterwards.
type Frontend interface {
	Bell()
	LineChanged(row int)
	CursorMoved(row, col int)
}

// EmptyFrontend discards all notifications.
type EmptyFrontend struct{}

func (EmptyFrontend) Bell()                    {}
func (EmptyFrontend) LineChanged(row int)      {}
func (EmptyFrontend) CursorMoved(row, col int) {}
