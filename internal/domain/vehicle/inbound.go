package vehicle

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/apperror"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// InboundItem is one vehicle arriving from the manufacturer.
type InboundItem struct {
	ChassisNo     string `json:"chassisNo" validate:"required,max=64"`
	EngineNo      string `json:"engineNo" validate:"max=64"`
	Model         string `json:"model" validate:"required"`
	Variant       string `json:"variant" validate:"required"`
	Color         string `json:"color" validate:"required"`
	LoadReference string `json:"loadReference" validate:"max=64"`
}

func (i *InboundItem) normalize() {
	i.ChassisNo = NormalizeChassis(i.ChassisNo)
	i.EngineNo = strings.TrimSpace(i.EngineNo)
	i.Model = strings.TrimSpace(i.Model)
	i.Variant = strings.TrimSpace(i.Variant)
	i.Color = strings.TrimSpace(i.Color)
	i.LoadReference = strings.TrimSpace(i.LoadReference)
}

// Validate normalizes the item and checks its struct tags.
func (i *InboundItem) Validate() error {
	i.normalize()
	if err := validate.Struct(i); err != nil {
		return validationError(err)
	}
	return nil
}

// InboundBatch collects the vehicles of one inbound event before they are
// written. It is a plain value built by the caller and handed to
// Ledger.CreateInbound; nothing is kept between calls.
type InboundBatch struct {
	BranchID      string
	Source        string
	LoadReference string
	Received      time.Time
	Remarks       string

	items []InboundItem
	index map[string]int
}

// NewInboundBatch starts an empty batch.
func NewInboundBatch(branchID, source, loadRef string, received time.Time, remarks string) *InboundBatch {
	return &InboundBatch{
		BranchID:      strings.TrimSpace(branchID),
		Source:        strings.TrimSpace(source),
		LoadReference: strings.TrimSpace(loadRef),
		Received:      received,
		Remarks:       strings.TrimSpace(remarks),
		index:         make(map[string]int),
	}
}

// Add validates an item and appends it. A chassis already in the batch is rejected.
func (b *InboundBatch) Add(item InboundItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if b.index == nil {
		b.index = make(map[string]int)
	}
	if _, dup := b.index[item.ChassisNo]; dup {
		return apperror.NewDuplicateChassis([]string{item.ChassisNo}).
			WithDetail("scope", "batch")
	}
	b.index[item.ChassisNo] = len(b.items)
	b.items = append(b.items, item)
	return nil
}

// Remove drops a chassis from the batch. It reports whether it was present.
func (b *InboundBatch) Remove(chassisNo string) bool {
	chassisNo = NormalizeChassis(chassisNo)
	pos, ok := b.index[chassisNo]
	if !ok {
		return false
	}
	b.items = append(b.items[:pos], b.items[pos+1:]...)
	delete(b.index, chassisNo)
	for i := pos; i < len(b.items); i++ {
		b.index[b.items[i].ChassisNo] = i
	}
	return true
}

// Items returns a copy of the batch contents in insertion order.
func (b *InboundBatch) Items() []InboundItem {
	return append([]InboundItem(nil), b.items...)
}

// Len returns the number of items.
func (b *InboundBatch) Len() int {
	return len(b.items)
}

// Chassis lists the chassis numbers in insertion order.
func (b *InboundBatch) Chassis() []string {
	out := make([]string, len(b.items))
	for i, it := range b.items {
		out[i] = it.ChassisNo
	}
	return out
}

// loadReferenceFor returns the item's own load reference, or the batch's.
func (b *InboundBatch) loadReferenceFor(item InboundItem) string {
	if item.LoadReference != "" {
		return item.LoadReference
	}
	return b.LoadReference
}

func validationError(err error) error {
	appErr := apperror.NewValidation("invalid inbound item")
	if verrs, ok := err.(validator.ValidationErrors); ok {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fmt.Sprintf("failed on '%s'", fe.Tag())
		}
		return appErr.WithDetail("fields", fields)
	}
	return appErr.WithCause(err)
}
