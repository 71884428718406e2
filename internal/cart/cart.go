// Package cart holds the pre-order cart: one line per distinct product, with
// the unit price captured when the product was first added.
//
// Cart is a value. Every operation returns a new Cart and leaves the receiver
// untouched, so callers own dispatch and no locking happens here.
package cart

import (
	"math"

	"github.com/MikeMC777/agrilink/internal/token"
)

// MaxQty is the largest quantity a line can hold; it matches the INTEGER
// order_items.qty column.
const MaxQty = math.MaxInt32

type Line struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Unit      string `json:"unit"`
	Price     int64  `json:"price"` // minor units, snapshot at add time
	Qty       int    `json:"qty"`
}

type Cart struct {
	Lines []Line `json:"lines"`
}

func (c Cart) clone() Cart {
	out := Cart{Lines: make([]Line, len(c.Lines))}
	copy(out.Lines, c.Lines)
	return out
}

// step returns qty+delta clamped to [1, MaxQty] without overflowing.
func step(qty, delta int) int {
	switch {
	case delta > 0 && delta > MaxQty-qty:
		return MaxQty
	case delta < 0 && delta < 1-qty:
		return 1
	}
	return qty + delta
}

func (c Cart) index(productID string) int {
	for i, l := range c.Lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

// Add merges l into the cart. An existing line keeps its price snapshot and
// grows by l.Qty, capped at MaxQty; otherwise l is appended. Lines with an
// empty product id or a non-positive quantity are ignored.
func (c Cart) Add(l Line) Cart {
	if l.ProductID == "" || l.Qty < 1 {
		return c
	}
	out := c.clone()
	if i := out.index(l.ProductID); i >= 0 {
		out.Lines[i].Qty = step(out.Lines[i].Qty, l.Qty)
		return out
	}
	l.Qty = min(l.Qty, MaxQty)
	out.Lines = append(out.Lines, l)
	return out
}

// SetQuantity sets the line quantity, clamped to [1, MaxQty]. Unknown ids are a no-op.
func (c Cart) SetQuantity(productID string, qty int) Cart {
	i := c.index(productID)
	if i < 0 {
		return c
	}
	out := c.clone()
	out.Lines[i].Qty = min(max(1, qty), MaxQty)
	return out
}

// AdjustQuantity applies a stepper delta, floored at 1. Unknown ids are a no-op.
func (c Cart) AdjustQuantity(productID string, delta int) Cart {
	i := c.index(productID)
	if i < 0 {
		return c
	}
	out := c.clone()
	out.Lines[i].Qty = step(out.Lines[i].Qty, delta)
	return out
}

// Remove drops the line for productID, if any.
func (c Cart) Remove(productID string) Cart {
	i := c.index(productID)
	if i < 0 {
		return c
	}
	out := Cart{Lines: make([]Line, 0, len(c.Lines)-1)}
	out.Lines = append(out.Lines, c.Lines[:i]...)
	out.Lines = append(out.Lines, c.Lines[i+1:]...)
	return out
}

func (c Cart) Line(productID string) (Line, bool) {
	if i := c.index(productID); i >= 0 {
		return c.Lines[i], true
	}
	return Line{}, false
}

func (c Cart) Empty() bool { return len(c.Lines) == 0 }

// Subtotal is the sum of price*qty over all lines.
func (c Cart) Subtotal() int64 {
	var total int64
	for _, l := range c.Lines {
		total += l.Price * int64(l.Qty)
	}
	return total
}

// ItemCount is the total number of units across lines.
func (c Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Qty
	}
	return n
}

// PreviewToken is the display token for the cart drawer.
func (c Cart) PreviewToken() string {
	lines := make([]token.Line, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, token.Line{ProductID: l.ProductID, Qty: l.Qty})
	}
	return token.Preview(lines)
}

// View is the JSON shape returned to the cart drawer.
type View struct {
	Lines        []Line `json:"lines"`
	Subtotal     int64  `json:"subtotal"`
	ItemCount    int    `json:"itemCount"`
	PreviewToken string `json:"previewToken"`
}

func (c Cart) View() View {
	lines := c.Lines
	if lines == nil {
		lines = []Line{}
	}
	return View{
		Lines:        lines,
		Subtotal:     c.Subtotal(),
		ItemCount:    c.ItemCount(),
		PreviewToken: c.PreviewToken(),
	}
}
