// Package menu posts the daily Gre:eat cafeteria menu into a Slack channel
// and keeps it updated through the lunch window, tracking which corner each
// user picked.
package menu

import "sync"

// Menu is one cafeteria corner's dish for the day.
type Menu struct {
	CornerID        string
	CornerName      string
	Name            string
	Category        string
	Kcal            string
	MaxQuantity     int
	CurrentQuantity int
	ImageURL        string
}

// Picks tracks which users picked which corner on the current menu
// message. A user holds at most one pick; re-picking the same corner
// clears it.
type Picks struct {
	mu       sync.Mutex
	byCorner map[string][]string
}

// NewPicks returns an empty pick register.
func NewPicks() *Picks {
	return &Picks{byCorner: make(map[string][]string)}
}

// Toggle records userID's pick of cornerID. Picking a new corner moves the
// user there; picking the current corner again removes the pick.
func (p *Picks) Toggle(cornerID, userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	already := false
	for _, id := range p.byCorner[cornerID] {
		if id == userID {
			already = true
			break
		}
	}
	for corner, ids := range p.byCorner {
		kept := ids[:0]
		for _, id := range ids {
			if id != userID {
				kept = append(kept, id)
			}
		}
		p.byCorner[corner] = kept
	}
	if !already {
		p.byCorner[cornerID] = append(p.byCorner[cornerID], userID)
	}
}

// Users returns the users currently picking cornerID.
func (p *Picks) Users(cornerID string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.byCorner[cornerID]...)
}

// Reset clears all picks, for when a fresh menu message is posted.
func (p *Picks) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byCorner = make(map[string][]string)
}
