package store

import "testing"

func TestNotificationCreateAndList(t *testing.T) {
	db := openTestDB(t)
	ns := NewNotificationStore(db)

	created, err := ns.Create("Daily targets live", "Check your updated slabs.")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Error("expected assigned id")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	got, err := ns.ListRecent(20)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Title != "Daily targets live" {
		t.Errorf("title = %q", got[0].Title)
	}
}

func TestNotificationListNewestFirstAndLimited(t *testing.T) {
	db := openTestDB(t)
	ns := NewNotificationStore(db)

	for _, title := range []string{"first", "second", "third"} {
		if _, err := ns.Create(title, ""); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}

	got, err := ns.ListRecent(2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Title != "third" {
		t.Errorf("first = %q, want third", got[0].Title)
	}
}
