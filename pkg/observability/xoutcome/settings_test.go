package xoutcome

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xixiU/monilog-sub001/pkg/observability/xclassify"
)

func TestSettings_Validate(t *testing.T) {
	require.NoError(t, DefaultSettings().Validate())

	tests := []struct {
		name   string
		mutate func(*Settings)
		also   error
	}{
		{"strategy", func(s *Settings) { s.Strategy = "if_lucky" }, xclassify.ErrUnknownStrategy},
		{"paths", func(s *Settings) { s.Paths.Code = "code" }, xclassify.ErrInvalidRules},
		{"sample rate", func(s *Settings) { s.Log.SuccessSampleRate = 1.5 }, nil},
		{"filter kind", func(s *Settings) { s.Log.Exclude.Kinds = []string{"db"} }, ErrUnknownKind},
		{"site kind", func(s *Settings) { s.Sites = []SiteRule{{Kind: "db"}} }, ErrInvalidSiteRule},
		{"site strategy", func(s *Settings) { s.Sites = []SiteRule{{Strategy: "nope"}} }, ErrInvalidSiteRule},
		{"site paths", func(s *Settings) { s.Sites = []SiteRule{{SuccessPaths: "$"}} }, ErrInvalidSiteRule},
		{"site tag", func(s *Settings) { s.Sites = []SiteRule{{Tags: map[string]string{"k": "bad"}}} }, ErrInvalidSiteRule},
		{"site blank tag key", func(s *Settings) { s.Sites = []SiteRule{{Tags: map[string]string{" ": "$.a"}}} }, ErrInvalidSiteRule},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			err := s.Validate()
			require.ErrorIs(t, err, ErrInvalidSettings)
			if tt.also != nil {
				assert.ErrorIs(t, err, tt.also)
			}
		})
	}
}

func TestSettings_ValidateJoinsErrors(t *testing.T) {
	s := DefaultSettings()
	s.Strategy = "bad"
	s.Log.SuccessSampleRate = -1
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strategy")
	assert.Contains(t, err.Error(), "success_sample_rate")
}

func TestCompile_SiteResolution(t *testing.T) {
	s := DefaultSettings()
	s.Strategy = "if_not_exception"
	s.Sites = []SiteRule{
		{Kind: "client_out", Service: "pay", Strategy: "if_not_null"},
		{Service: "pay", SuccessPaths: "$.ok"},
		{ServiceType: "grpc", Action: "Ping"},
	}
	c, err := compile(s)
	require.NoError(t, err)

	site := c.resolve(siteKey{kind: KindClientOut, service: "pay", action: "charge"})
	assert.Equal(t, xclassify.ExplicitPolicy(xclassify.StrategyIfNotNull), site.Policy)

	site = c.resolve(siteKey{kind: KindRPCIn, service: "pay"})
	assert.Equal(t, xclassify.ExplicitPolicy(xclassify.StrategyIfNotException), site.Policy, "strategy inherits global")
	assert.Equal(t, "$.ok", site.Rules.Success.String())
	assert.Equal(t, xclassify.DefaultRules().Code.String(), site.Rules.Code.String(), "code paths inherit global")

	site = c.resolve(siteKey{kind: KindRPCIn, serviceType: "grpc", service: "other", action: "Ping"})
	assert.Same(t, c.sites[2].site, site)

	assert.Same(t, c.global, c.resolve(siteKey{kind: KindWebIn, service: "x"}))
}

func TestCompile_MetricName(t *testing.T) {
	c, err := compile(DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, "monilog.rpc_in", c.metricName(KindRPCIn))

	s := DefaultSettings()
	s.Metrics.Prefix = ""
	c, err = compile(s)
	require.NoError(t, err)
	assert.Equal(t, "monilog.client_out", c.metricName(KindClientOut), "empty prefix falls back to default")

	s.Metrics.Prefix = "app_"
	c, err = compile(s)
	require.NoError(t, err)
	assert.Equal(t, "app_job_in", c.metricName(KindJobIn))
}

func TestLogFilter(t *testing.T) {
	f, err := newLogFilter(
		FilterSettings{Kinds: []string{"rpc_in", "web_in"}},
		FilterSettings{Services: []string{"health", " "}, Actions: []string{"Ping"}},
	)
	require.NoError(t, err)

	assert.True(t, f.allows(NewOutcome(KindRPCIn, "", "order", "Create")))
	assert.False(t, f.allows(NewOutcome(KindClientOut, "", "order", "Create")), "kind not included")
	assert.False(t, f.allows(NewOutcome(KindWebIn, "", "health", "Get")), "service excluded")
	assert.False(t, f.allows(NewOutcome(KindRPCIn, "", "order", "Ping")), "action excluded")

	open, err := newLogFilter(FilterSettings{}, FilterSettings{})
	require.NoError(t, err)
	assert.True(t, open.allows(NewOutcome(KindUnknown, "", "", "")))

	both, err := newLogFilter(FilterSettings{Services: []string{"a"}}, FilterSettings{Services: []string{"a"}})
	require.NoError(t, err)
	assert.False(t, both.allows(NewOutcome(KindRPCIn, "", "a", "")), "exclude wins")
}
