package snapshot

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/record"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "sync.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func records() record.List {
	now := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	return record.List{
		record.ClassifyRaw(`{"name":"Helmet","expiry_date":"2026-01-01"}`, now),
		record.ClassifyRaw("t=20240115T1030&s=99.90", now),
	}
}

func TestPutGet(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Get("alice"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() on empty store error = %v, expected ErrNotFound", err)
	}

	snap := Snapshot{User: "alice", Timestamp: "2025-01-15T10:30:00Z", Data: records()}
	if err := s.Put(snap); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := s.Get("alice")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Timestamp != snap.Timestamp || len(got.Data) != 2 {
		t.Fatalf("Get() = %+v", got)
	}
	if _, ok := got.Data[0].(record.PPE); !ok {
		t.Errorf("Get().Data[0] = %T, expected record.PPE", got.Data[0])
	}
	if r, ok := got.Data[1].(record.Receipt); !ok || r.Amount != "99.90" {
		t.Errorf("Get().Data[1] = %+v", got.Data[1])
	}
}

func TestPutReplacesAndLogs(t *testing.T) {
	s := newTestStore(t)

	for _, snap := range []Snapshot{
		{User: "alice", Timestamp: "t1", Data: records()},
		{User: "bob", Timestamp: "t2"},
		{User: "alice", Timestamp: "t3", Data: records()[:1]},
	} {
		if err := s.Put(snap); err != nil {
			t.Fatalf("Put(%s) error = %v", snap.User, err)
		}
	}

	got, err := s.Get("alice")
	if err != nil {
		t.Fatal(err)
	}
	if got.Timestamp != "t3" || len(got.Data) != 1 {
		t.Errorf("Get(alice) = %+v, expected latest snapshot", got)
	}

	bob, err := s.Get("bob")
	if err != nil {
		t.Fatal(err)
	}
	if bob.Data == nil || len(bob.Data) != 0 {
		t.Errorf("Get(bob).Data = %v, expected empty list", bob.Data)
	}

	users, err := s.Users()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(users, []string{"alice", "bob"}) {
		t.Errorf("Users() = %v", users)
	}

	uploads, err := s.Uploads("alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(uploads) != 2 || uploads[0].Count != 2 || uploads[1].Count != 1 {
		t.Errorf("Uploads(alice) = %+v", uploads)
	}
	if uploads[0].Seq >= uploads[1].Seq {
		t.Errorf("Uploads(alice) not in sequence order: %+v", uploads)
	}

	all, err := s.Uploads("")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("Uploads(\"\") = %d entries, expected 3", len(all))
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	if err := s.Put(Snapshot{User: "alice", Data: records()}); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("alice"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get("alice"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, expected ErrNotFound", err)
	}
}

func TestInvalidUser(t *testing.T) {
	s := newTestStore(t)
	if err := s.Put(Snapshot{}); !errors.Is(err, ErrInvalidUser) {
		t.Errorf("Put() error = %v, expected ErrInvalidUser", err)
	}
	if _, err := s.Get(""); !errors.Is(err, ErrInvalidUser) {
		t.Errorf("Get() error = %v, expected ErrInvalidUser", err)
	}
}
