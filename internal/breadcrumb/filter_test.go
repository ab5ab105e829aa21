package breadcrumb_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/crumbtrail/internal/breadcrumb"
	"github.com/hupe1980/crumbtrail/internal/owner"
	"github.com/hupe1980/crumbtrail/internal/view"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// idOnly is an owner without properties or methods.
type idOnly string

func (o idOnly) ID() string { return string(o) }

// adminUsers returns the "users" module nested in "admin".
func adminUsers() *owner.Module {
	app := owner.NewApplication("app")
	admin := owner.NewModule("admin", app)

	return owner.NewModule("users", admin)
}

func newFilter(t *testing.T, o breadcrumb.Owner, mutate func(*breadcrumb.Config)) *breadcrumb.Filter {
	t.Helper()

	cfg := breadcrumb.DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	f, err := breadcrumb.New(o, cfg)
	require.NoError(t, err)

	return f
}

func newRequest(route, module, controller, action string) *breadcrumb.Request {
	req := breadcrumb.NewRequest(route)
	req.ModuleID = module
	req.ControllerID = controller
	req.ActionID = action

	return req
}

func trailEntries(t *testing.T, req *breadcrumb.Request) []breadcrumb.Entry {
	t.Helper()

	trail, ok := req.View.LookupTrail(breadcrumb.DefaultBreadcrumbsParam)
	if !ok {
		return nil
	}

	out := make([]breadcrumb.Entry, 0, trail.Len())
	for _, v := range trail.Values() {
		e, ok := v.(breadcrumb.Entry)
		require.True(t, ok, "trail value %T is not an Entry", v)
		out = append(out, e)
	}

	return out
}

// ---------------------------------------------------------------------------
// New
// ---------------------------------------------------------------------------

func TestNew_NilOwner(t *testing.T) {
	_, err := breadcrumb.New(nil, breadcrumb.DefaultConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, breadcrumb.ErrInvalidConfig)
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*breadcrumb.Config)
		want   string
	}{
		{"empty param", func(c *breadcrumb.Config) { c.BreadcrumbsParam = "" }, "breadcrumbsParam"},
		{"empty label param", func(c *breadcrumb.Config) { c.LabelParam = "" }, "labelParam"},
		{"unset route creator", func(c *breadcrumb.Config) { c.RouteCreator = breadcrumb.RouteCreator{} }, "routeCreator"},
		{"unknown policy", func(c *breadcrumb.Config) { c.MatchPolicy = "glob" }, "matchPolicy"},
		{"bad regex", func(c *breadcrumb.Config) {
			c.MatchPolicy = breadcrumb.MatchRegex
			c.ExceptRoutes = []string{"site/(index"}
		}, "exceptRoutes[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := breadcrumb.DefaultConfig()
			tt.mutate(&cfg)

			_, err := breadcrumb.New(adminUsers(), cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, breadcrumb.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.want)

			var cfgErr *breadcrumb.ConfigError
			require.True(t, errors.As(err, &cfgErr))
		})
	}
}

func TestNew_LabelParamAllowedEmptyWithLabel(t *testing.T) {
	cfg := breadcrumb.DefaultConfig()
	cfg.LabelParam = ""
	cfg.Label = "Users"

	_, err := breadcrumb.New(adminUsers(), cfg)
	require.NoError(t, err)
}

func TestNew_OwnerWithoutProperties(t *testing.T) {
	cfg := breadcrumb.DefaultConfig()
	cfg.RouteCreator = breadcrumb.StaticRoute("x")

	_, err := breadcrumb.New(idOnly("x"), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, breadcrumb.ErrMissingProperty)

	cfg.Label = "X"
	_, err = breadcrumb.New(idOnly("x"), cfg)
	require.NoError(t, err)
}

func TestNew_OwnerWithoutMethods(t *testing.T) {
	cfg := breadcrumb.DefaultConfig()
	cfg.Label = "X"

	_, err := breadcrumb.New(idOnly("x"), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, breadcrumb.ErrMissingMethod)

	var ownerErr *breadcrumb.OwnerError
	require.True(t, errors.As(err, &ownerErr))
	assert.Equal(t, "x", ownerErr.OwnerID)
	assert.Equal(t, breadcrumb.DefaultRouteMethod, ownerErr.Member)
}

func TestNew_ConfigIsCopied(t *testing.T) {
	except := []string{"site/error"}

	f := newFilter(t, adminUsers(), func(c *breadcrumb.Config) { c.ExceptRoutes = except })
	except[0] = "admin"

	assert.Equal(t, []string{"site/error"}, f.Config().ExceptRoutes)
	assert.False(t, f.Reject("admin/users/default/index"))
}

// ---------------------------------------------------------------------------
// Reject
// ---------------------------------------------------------------------------

func TestReject_EmptyExceptRoutesNeverRejects(t *testing.T) {
	f := newFilter(t, adminUsers(), nil)

	for _, route := range []string{"", "*", "site/index", "admin/users/default/index"} {
		assert.False(t, f.Reject(route), route)
	}
}

func TestReject_WildcardAlwaysRejects(t *testing.T) {
	f := newFilter(t, adminUsers(), func(c *breadcrumb.Config) {
		c.ExceptRoutes = []string{"nothing-matches", breadcrumb.ExceptAll}
	})

	for _, route := range []string{"", "site/index", "admin/users/profile/view"} {
		assert.True(t, f.Reject(route), route)
	}
}

func TestReject_Substring(t *testing.T) {
	f := newFilter(t, adminUsers(), func(c *breadcrumb.Config) {
		c.ExceptRoutes = []string{"site/index", "ind"}
	})

	tests := []struct {
		route string
		want  bool
	}{
		{"site/index", true},
		{"admin/site/index/extra", true},
		{"admin/users/find", true},
		{"admin/users/view", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, f.Reject(tt.route), tt.route)
	}
}

func TestReject_SubstringTreatsRegexMetacharactersLiterally(t *testing.T) {
	f := newFilter(t, adminUsers(), func(c *breadcrumb.Config) {
		c.ExceptRoutes = []string{"a.c"}
	})

	assert.False(t, f.Reject("abc"))
	assert.True(t, f.Reject("x/a.c/y"))
}

func TestReject_Regex(t *testing.T) {
	f := newFilter(t, adminUsers(), func(c *breadcrumb.Config) {
		c.MatchPolicy = breadcrumb.MatchRegex
		c.ExceptRoutes = []string{`^site/(index|error)$`}
	})

	assert.True(t, f.Reject("site/index"))
	assert.True(t, f.Reject("site/error"))
	assert.False(t, f.Reject("admin/site/index"))
	assert.False(t, f.Reject("site/contact"))
}

func TestReject_RegexWildcardIsNotCompiled(t *testing.T) {
	f := newFilter(t, adminUsers(), func(c *breadcrumb.Config) {
		c.MatchPolicy = breadcrumb.MatchRegex
		c.ExceptRoutes = []string{breadcrumb.ExceptAll}
	})

	assert.True(t, f.Reject("anything"))
}

// ---------------------------------------------------------------------------
// Label
// ---------------------------------------------------------------------------

func TestLabel_ExplicitLabelWins(t *testing.T) {
	m := adminUsers()
	m.SetProperty("title", "User management")

	f := newFilter(t, m, func(c *breadcrumb.Config) {
		c.Label = "Users"
		c.LabelParam = "title"
	})

	label, err := f.Label()
	require.NoError(t, err)
	assert.Equal(t, "Users", label)
}

func TestLabel_FromLabelParam(t *testing.T) {
	m := adminUsers()
	m.SetProperty("title", "User management")
	m.SetProperty("position", 3)

	label, err := newFilter(t, m, nil).Label()
	require.NoError(t, err)
	assert.Equal(t, "users", label)

	label, err = newFilter(t, m, func(c *breadcrumb.Config) { c.LabelParam = "title" }).Label()
	require.NoError(t, err)
	assert.Equal(t, "User management", label)

	label, err = newFilter(t, m, func(c *breadcrumb.Config) { c.LabelParam = "position" }).Label()
	require.NoError(t, err)
	assert.Equal(t, "3", label)
}

func TestLabel_MissingProperty(t *testing.T) {
	f := newFilter(t, adminUsers(), func(c *breadcrumb.Config) { c.LabelParam = "title" })

	_, err := f.Label()
	require.Error(t, err)
	assert.ErrorIs(t, err, breadcrumb.ErrMissingProperty)
	assert.Contains(t, err.Error(), `should provide property "title"`)
}

func TestLabel_UnconvertibleProperty(t *testing.T) {
	m := adminUsers()
	m.SetProperty("title", struct{ A int }{1})

	_, err := newFilter(t, m, func(c *breadcrumb.Config) { c.LabelParam = "title" }).Label()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `owner property "title" as label`)
}

// ---------------------------------------------------------------------------
// IsActive
// ---------------------------------------------------------------------------

func TestIsActive(t *testing.T) {
	tests := []struct {
		name         string
		defaultRoute breadcrumb.DefaultRoute
		module       string
		controller   string
		action       string
		want         bool
	}{
		{"default action on own module", breadcrumb.DefaultRouteOf("default/index"), "users", "default", "index", true},
		{"pattern contains pair", breadcrumb.DefaultRouteOf("admin/users/default/index"), "users", "default", "index", true},
		{"other action", breadcrumb.DefaultRouteOf("default/index"), "users", "default", "view", false},
		{"other controller", breadcrumb.DefaultRouteOf("default/index"), "users", "profile", "index", false},
		{"other module", breadcrumb.DefaultRouteOf("default/index"), "admin", "default", "index", false},
		{"disabled", breadcrumb.NoDefaultRoute, "users", "default", "index", false},
		{"empty pattern", breadcrumb.DefaultRoute{}, "users", "default", "index", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFilter(t, adminUsers(), func(c *breadcrumb.Config) { c.DefaultRoute = tt.defaultRoute })
			req := newRequest("admin/users/"+tt.controller+"/"+tt.action, tt.module, tt.controller, tt.action)

			assert.Equal(t, tt.want, f.IsActive(req))
		})
	}
}

// ---------------------------------------------------------------------------
// Route
// ---------------------------------------------------------------------------

func TestRoute_Method(t *testing.T) {
	route, err := newFilter(t, adminUsers(), nil).Route()
	require.NoError(t, err)
	assert.Equal(t, "admin/users", route)
}

func TestRoute_ConfiguredMethodIsChecked(t *testing.T) {
	m := owner.NewMap("news", nil).WithRoute("getUniqueId", "news")

	f := newFilter(t, m, func(c *breadcrumb.Config) {
		c.RouteCreator = breadcrumb.MethodRoute("getRoute")
	})

	_, err := f.Route()
	require.Error(t, err)
	assert.ErrorIs(t, err, breadcrumb.ErrMissingMethod)
	assert.Contains(t, err.Error(), `should provide method "getRoute"`)
}

func TestRoute_Func(t *testing.T) {
	var got *breadcrumb.Filter

	f := newFilter(t, adminUsers(), func(c *breadcrumb.Config) {
		c.RouteCreator = breadcrumb.FuncRoute(func(f *breadcrumb.Filter) (string, error) {
			got = f
			return "custom/" + f.Owner().ID(), nil
		})
	})

	route, err := f.Route()
	require.NoError(t, err)
	assert.Equal(t, "custom/users", route)
	assert.Same(t, f, got)
}

func TestRoute_FuncError(t *testing.T) {
	boom := errors.New("boom")
	f := newFilter(t, adminUsers(), func(c *breadcrumb.Config) {
		c.RouteCreator = breadcrumb.FuncRoute(func(*breadcrumb.Filter) (string, error) { return "", boom })
	})

	_, err := f.Route()
	assert.ErrorIs(t, err, boom)
}

// ---------------------------------------------------------------------------
// Breadcrumbs
// ---------------------------------------------------------------------------

func TestBreadcrumbs_LinkedEntry(t *testing.T) {
	m := owner.NewMap("users", nil).WithRoute(breadcrumb.DefaultRouteMethod, "admin/users")

	f := newFilter(t, m, func(c *breadcrumb.Config) {
		c.Label = "Users"
		c.DefaultRoute = breadcrumb.NoDefaultRoute
	})

	entry, err := f.Breadcrumbs(newRequest("admin/users/default/index", "users", "default", "index"))
	require.NoError(t, err)
	assert.Equal(t, breadcrumb.Entry{Label: "Users", URL: "/admin/users"}, entry)
	assert.True(t, entry.Linked())
}

func TestBreadcrumbs_ActiveEntry(t *testing.T) {
	f := newFilter(t, adminUsers(), nil)

	entry, err := f.Breadcrumbs(newRequest("admin/users/default/index", "users", "default", "index"))
	require.NoError(t, err)
	assert.Equal(t, breadcrumb.Entry{Label: "users", Active: true}, entry)
	assert.False(t, entry.Linked())
}

func TestBreadcrumbs_NoRouteMeansNoURL(t *testing.T) {
	f := newFilter(t, adminUsers(), func(c *breadcrumb.Config) {
		c.RouteCreator = breadcrumb.StaticRoute("")
	})

	entry, err := f.Breadcrumbs(newRequest("admin/users/profile/view", "users", "profile", "view"))
	require.NoError(t, err)
	assert.Equal(t, breadcrumb.Entry{Label: "users"}, entry)
	assert.False(t, entry.Active)
}

func TestBreadcrumbs_IgnoresExceptRoutes(t *testing.T) {
	f := newFilter(t, adminUsers(), func(c *breadcrumb.Config) {
		c.ExceptRoutes = []string{breadcrumb.ExceptAll}
	})

	entry, err := f.Breadcrumbs(newRequest("admin/users/profile/view", "users", "profile", "view"))
	require.NoError(t, err)
	assert.Equal(t, "users", entry.Label)
}

func TestBreadcrumbs_URLResolver(t *testing.T) {
	cfg := breadcrumb.DefaultConfig()

	f, err := breadcrumb.New(adminUsers(), cfg, breadcrumb.WithURLResolver(
		breadcrumb.URLResolverFunc(func(route string) string { return "https://example.com" + route }),
	))
	require.NoError(t, err)

	entry, err := f.Breadcrumbs(newRequest("admin/users/profile/view", "users", "profile", "view"))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/admin/users", entry.URL)
}

// ---------------------------------------------------------------------------
// BuildBreadcrumbs
// ---------------------------------------------------------------------------

func TestBuildBreadcrumbs_Appends(t *testing.T) {
	ctx := context.Background()
	req := newRequest("admin/users/profile/view", "users", "profile", "view")

	trail, err := req.View.Trail(breadcrumb.DefaultBreadcrumbsParam)
	require.NoError(t, err)
	trail.Append(breadcrumb.Entry{Label: "Home", URL: "/"})

	app := owner.NewApplication("app")
	admin := owner.NewModule("admin", app)
	users := owner.NewModule("users", admin)

	for _, m := range []*owner.Module{admin, users} {
		_, ok, err := newFilter(t, m, nil).BuildBreadcrumbs(ctx, req)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	assert.Equal(t, []breadcrumb.Entry{
		{Label: "Home", URL: "/"},
		{Label: "admin", URL: "/admin"},
		{Label: "users", URL: "/admin/users"},
	}, trailEntries(t, req))
	assert.Equal(t, []string{"0", "1", "2"}, trail.Keys())
}

func TestBuildBreadcrumbs_Keyed(t *testing.T) {
	ctx := context.Background()
	req := newRequest("news/default/view", "news", "default", "view")

	trail, err := req.View.Trail(breadcrumb.DefaultBreadcrumbsParam)
	require.NoError(t, err)
	trail.Set("news", breadcrumb.Entry{Label: "stale"})
	trail.Append(breadcrumb.Entry{Label: "after"})

	f := newFilter(t, owner.NewModule("news", nil), func(c *breadcrumb.Config) { c.BreadcrumbsKey = "news" })

	entry, ok, err := f.BuildBreadcrumbs(ctx, req)
	require.NoError(t, err)
	require.True(t, ok)

	got, found := trail.Get("news")
	require.True(t, found)
	assert.Equal(t, entry, got)
	assert.Equal(t, breadcrumb.Entry{Label: "news", URL: "/news"}, got)
	assert.Equal(t, []string{"news", "0"}, trail.Keys())
}

func TestBuildBreadcrumbs_CustomParam(t *testing.T) {
	req := newRequest("admin/users/profile/view", "users", "profile", "view")
	f := newFilter(t, adminUsers(), func(c *breadcrumb.Config) { c.BreadcrumbsParam = "crumbs" })

	_, ok, err := f.BuildBreadcrumbs(context.Background(), req)
	require.NoError(t, err)
	require.True(t, ok)

	trail, found := req.View.LookupTrail("crumbs")
	require.True(t, found)
	assert.Equal(t, 1, trail.Len())

	_, found = req.View.LookupTrail(breadcrumb.DefaultBreadcrumbsParam)
	assert.False(t, found)
}

func TestBuildBreadcrumbs_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		except []string
		route  string
	}{
		{"wildcard", []string{breadcrumb.ExceptAll}, "admin/users/profile/view"},
		{"exact route", []string{"site/index"}, "site/index"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest(tt.route, "users", "profile", "view")
			f := newFilter(t, adminUsers(), func(c *breadcrumb.Config) { c.ExceptRoutes = tt.except })

			_, ok, err := f.BuildBreadcrumbs(context.Background(), req)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Empty(t, trailEntries(t, req))
		})
	}
}

func TestBuildBreadcrumbs_ErrorLeavesBagUntouched(t *testing.T) {
	req := newRequest("admin/users/profile/view", "users", "profile", "view")
	f := newFilter(t, adminUsers(), func(c *breadcrumb.Config) { c.LabelParam = "title" })

	_, ok, err := f.BuildBreadcrumbs(context.Background(), req)
	require.Error(t, err)
	assert.False(t, ok)
	assert.Empty(t, req.View.Names())
}

func TestBuildBreadcrumbs_ParamHoldsOtherValue(t *testing.T) {
	req := newRequest("admin/users/profile/view", "users", "profile", "view")
	req.View.Set(breadcrumb.DefaultBreadcrumbsParam, "not a trail")

	_, _, err := newFilter(t, adminUsers(), nil).BuildBreadcrumbs(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a trail")
}

func TestBuildBreadcrumbs_NilViewIsCreated(t *testing.T) {
	req := &breadcrumb.Request{Route: "admin/users/profile/view", ModuleID: "users"}

	_, ok, err := newFilter(t, adminUsers(), nil).BuildBreadcrumbs(context.Background(), req)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, req.View)
	assert.Len(t, trailEntries(t, req), 1)
}

// ---------------------------------------------------------------------------
// BeforeAction
// ---------------------------------------------------------------------------

func TestBeforeAction_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newFilter(t, adminUsers(), nil)
	req := newRequest("admin/users/profile/view", "users", "profile", "view")

	require.NoError(t, f.BeforeAction(ctx, req))
	require.NoError(t, f.BeforeAction(ctx, req))

	assert.Len(t, trailEntries(t, req), 1)
	assert.True(t, req.Processed(f))
}

func TestBeforeAction_ReusedAcrossRequests(t *testing.T) {
	ctx := context.Background()
	f := newFilter(t, adminUsers(), nil)

	first := newRequest("admin/users/profile/view", "users", "profile", "view")
	second := newRequest("admin/users/profile/edit", "users", "profile", "edit")

	require.NoError(t, f.BeforeAction(ctx, first))
	assert.False(t, second.Processed(f))
	require.NoError(t, f.BeforeAction(ctx, second))

	assert.Len(t, trailEntries(t, first), 1)
	assert.Len(t, trailEntries(t, second), 1)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestBeforeAction_SkipsConsoleControllers(t *testing.T) {
	f := newFilter(t, adminUsers(), nil)
	req := newRequest("admin/users/migrate/up", "users", "migrate", "up")
	req.Kind = breadcrumb.ControllerConsole

	require.NoError(t, f.BeforeAction(context.Background(), req))
	assert.Empty(t, req.View.Names())
	assert.False(t, req.Processed(f))
}

func TestBeforeAction_PropagatesErrors(t *testing.T) {
	f := newFilter(t, adminUsers(), func(c *breadcrumb.Config) { c.LabelParam = "missing" })

	err := f.BeforeAction(context.Background(), newRequest("admin/users/profile/view", "users", "profile", "view"))
	assert.ErrorIs(t, err, breadcrumb.ErrMissingProperty)
}

func TestBeforeAction_FailedRunCanBeRetried(t *testing.T) {
	ctx := context.Background()
	m := adminUsers()
	f := newFilter(t, m, func(c *breadcrumb.Config) { c.LabelParam = "title" })
	req := newRequest("admin/users/profile/view", "users", "profile", "view")

	require.ErrorIs(t, f.BeforeAction(ctx, req), breadcrumb.ErrMissingProperty)
	assert.False(t, req.Processed(f))

	m.SetProperty("title", "Users")
	require.NoError(t, f.BeforeAction(ctx, req))
	assert.True(t, req.Processed(f))
	assert.Equal(t, []breadcrumb.Entry{{Label: "Users", URL: "/admin/users"}}, trailEntries(t, req))
}

// ---------------------------------------------------------------------------
// Scenarios
// ---------------------------------------------------------------------------

func TestScenario_ActiveDefaultRouteOnOwnModule(t *testing.T) {
	m := owner.NewModule("news", owner.NewApplication("app"))
	m.SetProperty("title", "News")

	f := newFilter(t, m, func(c *breadcrumb.Config) { c.LabelParam = "title" })
	req := newRequest("news/default/index", "news", "default", "index")

	require.NoError(t, f.BeforeAction(context.Background(), req))
	assert.Equal(t, []breadcrumb.Entry{{Label: "News", Active: true}}, trailEntries(t, req))
}

func TestScenario_TrailIsVisibleToViewBag(t *testing.T) {
	params := view.NewParams()
	req := newRequest("admin/users/profile/view", "users", "profile", "view")
	req.View = params

	require.NoError(t, newFilter(t, adminUsers(), nil).BeforeAction(context.Background(), req))

	_, ok := params.LookupTrail(breadcrumb.DefaultBreadcrumbsParam)
	assert.True(t, ok)
}
