package sp

import (
	"context"
)

// DefaultItemEntityType is used by Item.Update when no entity type is given.
const DefaultItemEntityType = "SP.ListItem"

// ItemUpdateResult is returned when an item is updated.
type ItemUpdateResult struct {
	Data *Result
	Item Item
}

// Item is a handle to a list item. Data carries the payload the handle was
// created from, if any.
type Item struct {
	Queryable

	Data *Result
}

// ItemFrom wraps q as a list item.
func ItemFrom(q Queryable) Item {
	return Item{Queryable: q}
}

// InBatch returns the item bound to b.
func (i Item) InBatch(b *Batch) Item {
	return Item{Queryable: i.Queryable.InBatch(b), Data: i.Data}
}

// Info reads the item field values.
func (i Item) Info(ctx context.Context) *Pending[*Result] {
	return i.send(ctx, &PendingOperation{Verb: VerbGet, Target: i.Queryable, Name: OpItemInfo})
}

// Update merges props into the item. entityType is the list item entity type
// name, e.g. SP.Data.Shared_x0020_DocumentsItem.
func (i Item) Update(ctx context.Context, props map[string]interface{}, entityType string) *Pending[*ItemUpdateResult] {
	if entityType == "" {
		entityType = DefaultItemEntityType
	}

	pending := i.send(ctx, &PendingOperation{
		Verb:    VerbPatch,
		Target:  i.Queryable,
		Body:    typedBody(entityType, props),
		Headers: ifMatch(""),
		Name:    OpItemUpdate,
	})

	return mapPending(pending, func(result *Result) (*ItemUpdateResult, error) {
		return &ItemUpdateResult{Data: result, Item: i}, nil
	})
}

// Delete removes the item. An empty etag matches any version.
func (i Item) Delete(ctx context.Context, etag string) *Pending[*Result] {
	return i.send(ctx, &PendingOperation{Verb: VerbDelete, Target: i.Queryable, Headers: ifMatch(etag), Name: OpItemDelete})
}
