package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/matzehuels/nodegraph/pkg/io"
)

func sampleDoc() io.Document {
	return io.Document{
		Leaves: []io.LeafSpec{
			{ID: "a", Inputs: 0, Outputs: 1},
			{ID: "b", Inputs: 1, Outputs: 0, Group: "g"},
		},
		Groups: []io.GroupSpec{{ID: "g"}},
		Links:  []io.LinkSpec{{From: "a", Out: 0, To: "b", In: 0}},
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	rec, err := s.Save(ctx, sampleDoc())
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := uuid.Parse(rec.ID); err != nil {
		t.Errorf("Save() ID %q is not a UUID: %v", rec.ID, err)
	}
	if rec.Hash != io.Hash(sampleDoc()) {
		t.Error("Save() hash does not match document hash")
	}

	got, err := s.Load(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, rec) {
		t.Errorf("Load() = %+v, want %+v", got, rec)
	}

	second, _ := s.Save(ctx, sampleDoc())
	if second.ID == rec.ID {
		t.Error("Save() should generate distinct IDs")
	}
	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 {
		t.Errorf("List() len = %d, want 2", len(list))
	}

	if err := s.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Load(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() after delete error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() twice error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreConcurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	done := make(chan string)
	for range 20 {
		go func() {
			rec, err := s.Save(ctx, sampleDoc())
			if err != nil {
				t.Errorf("Save() error = %v", err)
			}
			done <- rec.ID
		}()
	}
	for range 20 {
		id := <-done
		if _, err := s.Load(ctx, id); err != nil {
			t.Errorf("Load(%s) error = %v", id, err)
		}
	}
}

func TestRecordBSON(t *testing.T) {
	rec := newRecord(sampleDoc())

	data, err := bson.Marshal(rec)
	if err != nil {
		t.Fatalf("bson.Marshal() error = %v", err)
	}
	var raw bson.M
	if err := bson.Unmarshal(data, &raw); err != nil {
		t.Fatalf("bson.Unmarshal() error = %v", err)
	}
	if raw["_id"] != rec.ID {
		t.Errorf("_id = %v, want %v", raw["_id"], rec.ID)
	}

	var back Record
	if err := bson.Unmarshal(data, &back); err != nil {
		t.Fatalf("bson.Unmarshal(Record) error = %v", err)
	}
	if !reflect.DeepEqual(back.Document, rec.Document) {
		t.Errorf("Document = %+v, want %+v", back.Document, rec.Document)
	}
}
