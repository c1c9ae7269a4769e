package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"cloud.google.com/go/datastore"
	"github.com/zeroshade/marinaapi/types"
)

const (
	boatKind = "Boat"
	slipKind = "Slip"
)

// Datastore keeps boats and slips as Cloud Datastore entities of kind
// "Boat" and "Slip", addressed by store-allocated integer keys.
type Datastore struct {
	client *datastore.Client
}

// OpenDatastore connects to projectID, or the detected project when empty.
// DATASTORE_EMULATOR_HOST is honoured by the client library.
func OpenDatastore(ctx context.Context, projectID string) (*Datastore, error) {
	if projectID == "" {
		projectID = datastore.DetectProjectID
	}
	client, err := datastore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("datastore client: %w", err)
	}
	return &Datastore{client: client}, nil
}

// boatEntity accepts lengths saved as integers as well as floats
type boatEntity struct {
	Name   string
	Type   string
	Length float64
}

func (e *boatEntity) Load(props []datastore.Property) error {
	for _, p := range props {
		switch p.Name {
		case "name":
			e.Name, _ = p.Value.(string)
		case "type":
			e.Type, _ = p.Value.(string)
		case "length":
			switch v := p.Value.(type) {
			case float64:
				e.Length = v
			case int64:
				e.Length = float64(v)
			}
		}
	}
	return nil
}

func (e *boatEntity) Save() ([]datastore.Property, error) {
	return []datastore.Property{
		{Name: "name", Value: e.Name},
		{Name: "type", Value: e.Type},
		{Name: "length", Value: e.Length},
	}, nil
}

func (e *boatEntity) boat(key *datastore.Key) types.Boat {
	return types.Boat{ID: key.ID, Name: e.Name, Type: e.Type, Length: e.Length}
}

// slipEntity stores an empty slip as a null current_boat. Older records hold
// the boat id as a string, so both forms are read.
type slipEntity struct {
	Number      int64
	CurrentBoat *int64
}

func (e *slipEntity) Load(props []datastore.Property) error {
	for _, p := range props {
		switch p.Name {
		case "number":
			switch v := p.Value.(type) {
			case int64:
				e.Number = v
			case float64:
				e.Number = int64(v)
			}
		case "current_boat":
			e.CurrentBoat = nil
			switch v := p.Value.(type) {
			case int64:
				e.CurrentBoat = &v
			case string:
				id, err := strconv.ParseInt(v, 10, 64)
				if err != nil {
					return fmt.Errorf("current_boat %q: %w", v, err)
				}
				e.CurrentBoat = &id
			}
		}
	}
	return nil
}

func (e *slipEntity) Save() ([]datastore.Property, error) {
	var cur interface{}
	if e.CurrentBoat != nil {
		cur = *e.CurrentBoat
	}
	return []datastore.Property{
		{Name: "number", Value: e.Number},
		{Name: "current_boat", Value: cur},
	}, nil
}

func (e *slipEntity) slip(key *datastore.Key) types.Slip {
	return types.Slip{ID: key.ID, Number: int(e.Number), CurrentBoat: e.CurrentBoat}
}

func boatKey(id int64) *datastore.Key { return datastore.IDKey(boatKind, id, nil) }
func slipKey(id int64) *datastore.Key { return datastore.IDKey(slipKind, id, nil) }

func notFound(err error) error {
	if errors.Is(err, datastore.ErrNoSuchEntity) {
		return ErrNotFound
	}
	return err
}

func (d *Datastore) ListBoats(ctx context.Context) ([]types.Boat, error) {
	var ents []boatEntity
	keys, err := d.client.GetAll(ctx, datastore.NewQuery(boatKind), &ents)
	if err != nil {
		return nil, fmt.Errorf("list boats: %w", err)
	}

	boats := make([]types.Boat, 0, len(ents))
	for i := range ents {
		boats = append(boats, ents[i].boat(keys[i]))
	}
	return boats, nil
}

func (d *Datastore) GetBoat(ctx context.Context, id int64) (*types.Boat, error) {
	var e boatEntity
	key := boatKey(id)
	if err := d.client.Get(ctx, key, &e); err != nil {
		return nil, notFound(err)
	}
	b := e.boat(key)
	return &b, nil
}

func (d *Datastore) CreateBoat(ctx context.Context, b *types.Boat) error {
	e := boatEntity{Name: b.Name, Type: b.Type, Length: b.Length}
	key, err := d.client.Put(ctx, datastore.IncompleteKey(boatKind, nil), &e)
	if err != nil {
		return fmt.Errorf("create boat: %w", err)
	}
	b.ID = key.ID
	return nil
}

func (d *Datastore) SaveBoat(ctx context.Context, b *types.Boat) error {
	key := boatKey(b.ID)
	_, err := d.client.RunInTransaction(ctx, func(tx *datastore.Transaction) error {
		var cur boatEntity
		if err := tx.Get(key, &cur); err != nil {
			return notFound(err)
		}
		_, err := tx.Put(key, &boatEntity{Name: b.Name, Type: b.Type, Length: b.Length})
		return err
	})
	return err
}

func (d *Datastore) DeleteBoat(ctx context.Context, id int64) error {
	key := boatKey(id)
	_, err := d.client.RunInTransaction(ctx, func(tx *datastore.Transaction) error {
		var cur boatEntity
		if err := tx.Get(key, &cur); err != nil {
			return notFound(err)
		}
		return tx.Delete(key)
	})
	return err
}

func (d *Datastore) ListSlips(ctx context.Context) ([]types.Slip, error) {
	var ents []slipEntity
	keys, err := d.client.GetAll(ctx, datastore.NewQuery(slipKind), &ents)
	if err != nil {
		return nil, fmt.Errorf("list slips: %w", err)
	}

	slips := make([]types.Slip, 0, len(ents))
	for i := range ents {
		slips = append(slips, ents[i].slip(keys[i]))
	}
	return slips, nil
}

func (d *Datastore) GetSlip(ctx context.Context, id int64) (*types.Slip, error) {
	var e slipEntity
	key := slipKey(id)
	if err := d.client.Get(ctx, key, &e); err != nil {
		return nil, notFound(err)
	}
	s := e.slip(key)
	return &s, nil
}

func (d *Datastore) CreateSlip(ctx context.Context, s *types.Slip) error {
	e := slipEntity{Number: int64(s.Number)}
	key, err := d.client.Put(ctx, datastore.IncompleteKey(slipKind, nil), &e)
	if err != nil {
		return fmt.Errorf("create slip: %w", err)
	}
	s.ID = key.ID
	s.CurrentBoat = nil
	return nil
}

// updateSlip reads, checks and rewrites one slip inside a transaction.
// check returns the error to abort with, or nil to write e.
func (d *Datastore) updateSlip(ctx context.Context, id int64, check func(e *slipEntity) error) error {
	key := slipKey(id)
	_, err := d.client.RunInTransaction(ctx, func(tx *datastore.Transaction) error {
		var e slipEntity
		if err := tx.Get(key, &e); err != nil {
			return notFound(err)
		}
		if err := check(&e); err != nil {
			return err
		}
		_, err := tx.Put(key, &e)
		return err
	})
	return err
}

func (d *Datastore) AssignSlip(ctx context.Context, slipID, boatID int64) error {
	return d.updateSlip(ctx, slipID, func(e *slipEntity) error {
		if e.CurrentBoat != nil {
			return ErrConflict
		}
		e.CurrentBoat = &boatID
		return nil
	})
}

func (d *Datastore) ReleaseSlip(ctx context.Context, slipID, boatID int64) error {
	return d.updateSlip(ctx, slipID, func(e *slipEntity) error {
		if e.CurrentBoat == nil || *e.CurrentBoat != boatID {
			return ErrConflict
		}
		e.CurrentBoat = nil
		return nil
	})
}

func (d *Datastore) ClearSlip(ctx context.Context, slipID int64) error {
	return d.updateSlip(ctx, slipID, func(e *slipEntity) error {
		e.CurrentBoat = nil
		return nil
	})
}

// ClearBoatFromSlips finds slips by both the integer and the older string
// form of current_boat.
func (d *Datastore) ClearBoatFromSlips(ctx context.Context, boatID int64) error {
	seen := make(map[int64]bool)
	for _, value := range []interface{}{boatID, strconv.FormatInt(boatID, 10)} {
		q := datastore.NewQuery(slipKind).FilterField("current_boat", "=", value).KeysOnly()
		keys, err := d.client.GetAll(ctx, q, nil)
		if err != nil {
			return fmt.Errorf("find slips holding boat %d: %w", boatID, err)
		}

		for _, k := range keys {
			if seen[k.ID] {
				continue
			}
			seen[k.ID] = true

			err := d.ReleaseSlip(ctx, k.ID, boatID)
			if err != nil && !errors.Is(err, ErrConflict) && !errors.Is(err, ErrNotFound) {
				return err
			}
		}
	}
	return nil
}

func (d *Datastore) Ping(ctx context.Context) error {
	_, err := d.client.GetAll(ctx, datastore.NewQuery(boatKind).KeysOnly().Limit(1), nil)
	return err
}

func (d *Datastore) Close() error {
	return d.client.Close()
}
