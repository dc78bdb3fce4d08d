package cart

import (
	"sync"

	"github.com/shopspring/decimal"
)

// LineItem is one configured product and its quantity. Key and UnitPrice are
// derived from Product and Selection and recomputed on every mutation.
type LineItem struct {
	Key       string          `json:"line_key"`
	Product   Product         `json:"product"`
	Selection Selection       `json:"selection"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Total is UnitPrice multiplied by Quantity.
func (l LineItem) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l LineItem) clone() LineItem {
	l.Selection = l.Selection.normalized()
	return l
}

// Cart is an ordered set of line items, unique by line key. All methods are
// serialized by a single mutex, so a Cart may be shared between goroutines.
type Cart struct {
	mu         sync.Mutex
	lines      []*LineItem
	submitting bool
	// quantities by line key handed to the running submission
	inFlight map[string]int
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

func newLine(p *Product, sel Selection, quantity int) *LineItem {
	return &LineItem{
		Key:       LineKey(p.ID, sel),
		Product:   *p,
		Selection: sel,
		Quantity:  quantity,
		UnitPrice: unitPrice(p, sel),
	}
}

// refresh applies last-write-wins on the selection details of an existing line.
func (l *LineItem) refresh(from *LineItem) {
	l.Product = from.Product
	l.Selection = from.Selection
	l.UnitPrice = from.UnitPrice
}

func (c *Cart) indexOf(key string) int {
	for i, l := range c.lines {
		if l.Key == key {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// AddItem adds quantity units of the configured product. An existing line with
// the same key gets the quantity added and its selection details refreshed;
// otherwise a new line is appended.
func (c *Cart) AddItem(p *Product, sel Selection, quantity int) (LineItem, error) {
	if err := validateProduct(p); err != nil {
		return LineItem{}, err
	}
	if quantity < 1 {
		return LineItem{}, ErrInvalidQuantity
	}
	sel, err := bindSelection(p, sel)
	if err != nil {
		return LineItem{}, err
	}
	line := newLine(p, sel, quantity)

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.addLocked(line).clone(), nil
}

func (c *Cart) addLocked(line *LineItem) *LineItem {
	if i := c.indexOf(line.Key); i >= 0 {
		existing := c.lines[i]
		existing.Quantity += line.Quantity
		existing.refresh(line)
		return existing
	}
	c.lines = append(c.lines, line)
	return line
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less
// removes the line. Unknown keys are ignored.
func (c *Cart) UpdateQuantity(key string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(key)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		c.removeAt(i)
		return
	}
	c.lines[i].Quantity = quantity
}

// RemoveItem drops a line. Unknown keys are ignored.
func (c *Cart) RemoveItem(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(key); i >= 0 {
		c.removeAt(i)
	}
}

// ReplaceSelection edits the options of an existing line. The old line is
// replaced by the product configured with sel at the given quantity. If the
// new key matches another line the two merge and their quantities add. The
// whole edit happens under one lock, so no intermediate state is observable.
// A stale oldKey makes this behave like AddItem.
func (c *Cart) ReplaceSelection(oldKey string, p *Product, sel Selection, quantity int) (LineItem, error) {
	if err := validateProduct(p); err != nil {
		return LineItem{}, err
	}
	if quantity < 1 {
		return LineItem{}, ErrInvalidQuantity
	}
	sel, err := bindSelection(p, sel)
	if err != nil {
		return LineItem{}, err
	}
	line := newLine(p, sel, quantity)

	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.indexOf(oldKey)
	if old < 0 {
		return c.addLocked(line).clone(), nil
	}

	if line.Key == oldKey {
		existing := c.lines[old]
		existing.Quantity = quantity
		existing.refresh(line)
		return existing.clone(), nil
	}

	if j := c.indexOf(line.Key); j >= 0 {
		target := c.lines[j]
		target.Quantity += quantity
		target.refresh(line)
		c.removeAt(old)
		return target.clone(), nil
	}

	c.lines[old] = line
	return line.clone(), nil
}

// Lines returns a copy of the line items in insertion order.
func (c *Cart) Lines() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.linesLocked()
}

func (c *Cart) linesLocked() []LineItem {
	out := make([]LineItem, 0, len(c.lines))
	for _, l := range c.lines {
		out = append(out, l.clone())
	}
	return out
}

// Line returns the line with the given key.
func (c *Cart) Line(key string) (LineItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(key); i >= 0 {
		return c.lines[i].clone(), true
	}
	return LineItem{}, false
}

// Len is the number of distinct lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Total sums unit price times quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return totalOf(c.lines)
}

func totalOf(lines []*LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total())
	}
	return total
}

// ItemCount sums quantities over all lines.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// StartSubmission marks the cart as having an order in flight and returns the
// lines being submitted. It returns false if another submission is already
// running. The cart stays editable while the order is in flight.
func (c *Cart) StartSubmission() ([]LineItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitting {
		return nil, false
	}
	c.submitting = true
	lines := c.linesLocked()
	c.inFlight = make(map[string]int, len(lines))
	for _, l := range lines {
		c.inFlight[l.Key] = l.Quantity
	}
	return lines, true
}

// FinishSubmission ends the in-flight submission. A confirmed order takes its
// submitted quantities out of the cart; lines added or raised after
// StartSubmission keep whatever was not ordered. A failed submission leaves
// the cart untouched.
func (c *Cart) FinishSubmission(confirmed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.submitting {
		return
	}
	submitted := c.inFlight
	c.submitting = false
	c.inFlight = nil
	if !confirmed {
		return
	}

	kept := c.lines[:0]
	for _, l := range c.lines {
		if n, ok := submitted[l.Key]; ok {
			if l.Quantity <= n {
				continue
			}
			l.Quantity -= n
		}
		kept = append(kept, l)
	}
	for i := len(kept); i < len(c.lines); i++ {
		c.lines[i] = nil
	}
	c.lines = kept
	if len(c.lines) == 0 {
		c.lines = nil
	}
}
