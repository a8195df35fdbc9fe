package cli

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/evcraddock/field-visits/internal/catalog"
	"github.com/evcraddock/field-visits/internal/client"
	"github.com/evcraddock/field-visits/internal/db"
	"github.com/evcraddock/field-visits/internal/timer"
	"github.com/evcraddock/field-visits/internal/visit"
	"github.com/evcraddock/field-visits/internal/web"
)

// apiServer starts the real API over a fresh engine with a timer that never ticks.
func apiServer(t *testing.T) string {
	t.Helper()
	d, err := db.Open()
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if cerr := d.Close(); cerr != nil {
			t.Errorf("close db: %v", cerr)
		}
	})
	reg := timer.New(timer.WithTickSource(func(time.Duration) (<-chan time.Time, func()) {
		return make(chan time.Time), func() {}
	}))
	t.Cleanup(reg.StopAll)

	cat := catalog.NewRepository(d)
	engine := visit.NewEngine(visit.NewStore(), reg).WithDirectory(cat)
	srv := httptest.NewServer(web.NewServer(engine, cat, time.UTC))
	t.Cleanup(srv.Close)

	t.Setenv("HOME", t.TempDir())
	t.Setenv("FV_SERVER_URL", srv.URL)
	t.Setenv("FV_ASSIGNEE", "Ana Martínez")
	return srv.URL
}

func run(t *testing.T, args ...string) {
	t.Helper()
	if _, err := executeCommand(args...); err != nil {
		t.Fatalf("fv %v: %v", args, err)
	}
}

func TestVisitCommandsEndToEnd(t *testing.T) {
	url := apiServer(t)

	run(t, "catalog", "add", "store", "Día Malasaña", "--chain", "Día", "--address", "Calle Fuencarral 45", "--city", "Madrid")
	run(t, "assign", "Día", "Malasaña", "--date", "2025-07-20", "--time", "17:00",
		"--priority", "LOW", "--task", "Store layout check", "--task", "Product availability")

	c := client.New(url)
	visits, err := c.ListVisits(client.ListOptions{})
	if err != nil || len(visits) != 1 {
		t.Fatalf("list: %v, %d visits", err, len(visits))
	}
	v := visits[0]
	if v.Assignee != "Ana Martínez" || v.Priority != visit.PriorityLow || v.Address != "Calle Fuencarral 45, Madrid" {
		t.Errorf("assigned = %+v", v.Visit)
	}

	run(t, "reschedule", v.ID, "--time", "18:00")
	run(t, "start", v.ID)
	run(t, "task", v.ID, "1")
	run(t, "notes", v.ID, "Lineal reorganizado")
	run(t, "photo", v.ID, "lineal.jpg", "caja.jpg")
	run(t, "pause", v.ID)
	run(t, "resume", v.ID)
	run(t, "finish", v.ID)
	run(t, "show", v.ID)
	run(t, "list", "--status", "completed")
	run(t, "--format", "json", "calendar", "week", "--date", "2025-07-20")
	run(t, "summary", "--date", "2025-07-20")

	got, err := c.GetVisit(v.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ScheduledTime != "18:00" || got.Status != visit.StatusCompleted || got.ProgressPercent != 100 {
		t.Errorf("final = %+v", got.Visit)
	}
	if got.Notes != "Lineal reorganizado" || len(got.Photos) != 2 || !got.Tasks[0].Completed {
		t.Errorf("final details = %+v", got.Visit)
	}

	if _, err := executeCommand("pause", v.ID); err == nil {
		t.Error("expected pause of completed visit to fail")
	}

	run(t, "remove", v.ID)
	if _, err := c.GetVisit(v.ID); err == nil {
		t.Error("expected removed visit to be gone")
	}
}

func TestCatalogCommands(t *testing.T) {
	url := apiServer(t)

	run(t, "catalog", "add", "brand", "Oreo", "--category", "Galletas")
	run(t, "catalog", "add", "chain", "Carrefour", "--stores", "205", "--region", "Madrid", "--region", "Cataluña")
	run(t, "catalog", "list", "chains")

	if _, err := executeCommand("catalog", "add", "chain", "Carrefour"); err == nil {
		t.Error("expected duplicate chain to fail")
	}

	var chains []catalog.Chain
	if err := client.New(url).ListCatalog(catalog.KindChain, &chains); err != nil {
		t.Fatalf("list chains: %v", err)
	}
	if len(chains) != 1 || len(chains[0].Regions) != 2 {
		t.Fatalf("chains = %+v", chains)
	}

	run(t, "catalog", "remove", "chain", "1")
	run(t, "catalog", "list", "brands")
}
