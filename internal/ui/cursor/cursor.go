// Package cursor tracks the selected row and scroll offset of a list.
package cursor

// Cursor is a position in a list plus the first visible row. The list
// length and viewport height are passed in since both change at runtime.
type Cursor struct {
	pos    int
	offset int
	margin int // rows kept visible above and below the cursor
}

func New(margin int) Cursor {
	return Cursor{margin: margin}
}

func (c Cursor) Pos() int    { return c.pos }
func (c Cursor) Offset() int { return c.offset }

// Move moves the cursor by delta, clamped to the list.
func (c *Cursor) Move(delta, listLen, height int) {
	c.Jump(c.pos+delta, listLen, height)
}

// Jump moves the cursor to pos, clamped to the list.
func (c *Cursor) Jump(pos, listLen, height int) {
	if listLen == 0 {
		c.pos, c.offset = 0, 0
		return
	}
	c.pos = clamp(pos, listLen-1)
	c.EnsureVisible(listLen, height)
}

// EnsureVisible scrolls so the cursor sits inside the viewport margins.
func (c *Cursor) EnsureVisible(listLen, height int) {
	if height <= 0 || listLen == 0 {
		return
	}
	margin := min(c.margin, (height-1)/2)
	if c.pos < c.offset+margin {
		c.offset = c.pos - margin
	}
	if c.pos >= c.offset+height-margin {
		c.offset = c.pos - height + margin + 1
	}
	c.offset = clamp(c.offset, max(listLen-height, 0))
}

// Clamp keeps the cursor inside a list that may have shrunk.
func (c *Cursor) Clamp(listLen, height int) {
	c.Jump(c.pos, listLen, height)
}

// VisibleRange returns the visible indices [start, end).
func (c Cursor) VisibleRange(listLen, height int) (start, end int) {
	if listLen == 0 || height <= 0 {
		return 0, 0
	}
	return c.offset, min(c.offset+height, listLen)
}

// HandleKey applies list navigation keys and reports whether key was one.
func (c *Cursor) HandleKey(key string, listLen, height int) bool {
	switch key {
	case "j", "down":
		c.Move(1, listLen, height)
	case "k", "up":
		c.Move(-1, listLen, height)
	case "g", "home":
		c.Jump(0, listLen, height)
	case "G", "end":
		c.Jump(listLen-1, listLen, height)
	case "ctrl+d", "pgdown":
		c.Move(max(height/2, 1), listLen, height)
	case "ctrl+u", "pgup":
		c.Move(-max(height/2, 1), listLen, height)
	default:
		return false
	}
	return true
}

func clamp(v, hi int) int {
	return min(max(v, 0), hi)
}
