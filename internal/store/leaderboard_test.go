package store

import (
	"testing"

	"salespulse/internal/model"
)

func TestLeaderboardListOwnGroupOnly(t *testing.T) {
	db := openTestDB(t)
	es := NewExecutiveStore(db)
	ls := NewLeaderboardStore(db)
	for _, id := range []string{"EMP001", "EMP002", "EMP003"} {
		if err := es.Create(testExecutive(id)); err != nil {
			t.Fatalf("seed executive %s: %v", id, err)
		}
	}

	entries := []struct {
		group string
		entry model.RankEntry
	}{
		{"Pune", model.RankEntry{EmployeeID: "EMP002", FullName: "Ravi Shah", Rank: 1, Score: 9500}},
		{"Pune", model.RankEntry{EmployeeID: "EMP001", FullName: "Asha Rao", Rank: 2, Score: 8700}},
		{"Mumbai", model.RankEntry{EmployeeID: "EMP003", FullName: "Kiran Mehta", Rank: 1, Score: 9900}},
	}
	for _, e := range entries {
		if err := ls.Insert("day", "city", e.group, e.entry); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	got, err := ls.ListForEmployee("EMP001", "day", "city")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (own city only)", len(got))
	}
	if got[0].Rank != 1 || got[0].EmployeeID != "EMP002" {
		t.Errorf("first entry = %+v, want rank 1 EMP002", got[0])
	}
	if got[1].EmployeeID != "EMP001" {
		t.Errorf("second entry = %+v, want EMP001", got[1])
	}
}

func TestLeaderboardLayersIndependent(t *testing.T) {
	db := openTestDB(t)
	es := NewExecutiveStore(db)
	ls := NewLeaderboardStore(db)
	if err := es.Create(testExecutive("EMP001")); err != nil {
		t.Fatalf("seed executive: %v", err)
	}

	if err := ls.Insert("day", "city", "Pune", model.RankEntry{EmployeeID: "EMP001", FullName: "Asha Rao", Rank: 3, Score: 100}); err != nil {
		t.Fatalf("insert city: %v", err)
	}
	if err := ls.Insert("day", "cluster", "Pune West", model.RankEntry{EmployeeID: "EMP001", FullName: "Asha Rao", Rank: 1, Score: 100}); err != nil {
		t.Fatalf("insert cluster: %v", err)
	}

	city, err := ls.ListForEmployee("EMP001", "day", "city")
	if err != nil {
		t.Fatalf("list city: %v", err)
	}
	if len(city) != 1 || city[0].Rank != 3 {
		t.Errorf("city view = %+v, want single rank-3 entry", city)
	}

	cluster, err := ls.ListForEmployee("EMP001", "day", "cluster")
	if err != nil {
		t.Fatalf("list cluster: %v", err)
	}
	if len(cluster) != 1 || cluster[0].Rank != 1 {
		t.Errorf("cluster view = %+v, want single rank-1 entry", cluster)
	}
}

func TestLeaderboardUnknownEmployeeEmpty(t *testing.T) {
	db := openTestDB(t)
	ls := NewLeaderboardStore(db)

	got, err := ls.ListForEmployee("missing", "day", "city")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}
