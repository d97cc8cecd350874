package page

type PageID string

// PageChangeMsg asks the root model to show another page.
type PageChangeMsg struct {
	ID PageID
}
