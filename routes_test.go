package authgate

import (
	"errors"
	"testing"
)

func TestRouteSetClassify(t *testing.T) {
	rs, err := NewRouteSet(RoutesConfig{
		PublicPaths: []string{"/", "/pricing"},
	})
	if err != nil {
		t.Fatalf("NewRouteSet failed: %v", err)
	}

	tests := []struct {
		path string
		want RouteClass
	}{
		{"/", RoutePublic},
		{"/pricing", RoutePublic},
		{"/auth/login", RouteAuthOnly},
		{"/auth/register", RouteAuthOnly},
		{"/auth", RouteAuthOnly},
		{"/dashboard", RouteProtected},
		{"/projects/42", RouteProtected},
		{"/pricing/details", RouteProtected},
		{"/authx", RouteProtected},
	}

	for _, tc := range tests {
		if got := rs.Classify(tc.path); got != tc.want {
			t.Fatalf("Classify(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestRouteSetDefaults(t *testing.T) {
	rs, err := NewRouteSet(RoutesConfig{})
	if err != nil {
		t.Fatalf("NewRouteSet failed: %v", err)
	}

	if rs.LoginPath() != "/auth/login" {
		t.Fatalf("unexpected login path %q", rs.LoginPath())
	}
	if rs.LandingPath() != "/dashboard" {
		t.Fatalf("unexpected landing path %q", rs.LandingPath())
	}
	if rs.ReturnParam() != "from" {
		t.Fatalf("unexpected return param %q", rs.ReturnParam())
	}
}

func TestRouteSetRejectsBadPartitions(t *testing.T) {
	tests := []struct {
		name string
		cfg  RoutesConfig
	}{
		{
			name: "public path under auth prefix",
			cfg:  RoutesConfig{PublicPaths: []string{"/auth/login"}},
		},
		{
			name: "relative public path",
			cfg:  RoutesConfig{PublicPaths: []string{"pricing"}},
		},
		{
			name: "auth prefix without slashes",
			cfg:  RoutesConfig{AuthPrefix: "auth"},
		},
		{
			name: "login outside auth prefix",
			cfg:  RoutesConfig{LoginPath: "/login"},
		},
		{
			name: "landing under auth prefix",
			cfg:  RoutesConfig{LandingPath: "/auth/home"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewRouteSet(tc.cfg); !errors.Is(err, ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}
