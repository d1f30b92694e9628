package health

import (
	"context"
	"errors"
	"testing"
)

type pinger struct{ err error }

func (p pinger) Ping(ctx context.Context) error { return p.err }

func TestCheckBasic(t *testing.T) {
	down := func(context.Context) error { return errors.New("connection refused") }

	cases := []struct {
		name         string
		db           Pinger
		redis        func(context.Context) error
		status, dbSt string
		redisSt      string
	}{
		{"memory driver", nil, nil, "healthy", "disabled", "disabled"},
		{"db up", pinger{}, nil, "healthy", "healthy", "disabled"},
		{"db down", pinger{errors.New("x")}, nil, "unhealthy", "unhealthy", "disabled"},
		{"redis down is not fatal", pinger{}, down, "healthy", "healthy", "unhealthy"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NewHealthChecker(tc.db, tc.redis).CheckBasic()
			if got.Status != tc.status || got.Database.Status != tc.dbSt || got.Redis.Status != tc.redisSt {
				t.Fatalf("got %+v", got)
			}
		})
	}
}

func TestCheckDetailedIncludesHost(t *testing.T) {
	got := NewHealthChecker(nil, nil).CheckDetailed()
	if got.Host == nil {
		t.Fatal("host stats missing")
	}
}
