package github

import (
	"context"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
	"golang.org/x/xerrors"
	"k8s.io/utils/clock"

	"github.com/aquasecurity/ghsa2md/pkg/log"
)

const perPage = 100

var logger = log.WithPrefix("github")

type SecurityAdvisoriesInterface interface {
	ListGlobalSecurityAdvisories(ctx context.Context, opts *github.ListGlobalSecurityAdvisoriesOptions) ([]*github.GlobalSecurityAdvisory, *github.Response, error)
}

// Filter narrows the advisory listing server-side. Zero values mean unfiltered.
type Filter struct {
	Ecosystem string
	Severity  string
}

type Client struct {
	Clock      clock.Clock
	Advisories SecurityAdvisoriesInterface
}

func NewClient(ctx context.Context, token string) Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	gc := github.NewClient(tc)

	return Client{
		Clock:      clock.RealClock{},
		Advisories: gc.SecurityAdvisories,
	}
}

// WalkAdvisories lists all global security advisories matching the filter and
// invokes f once per advisory, in listing order. Pages are fetched lazily; an
// error from f aborts the walk. It returns the number of advisories f was
// called with. Network and authentication failures propagate wrapped.
func (c Client) WalkAdvisories(ctx context.Context, filter Filter, f func(adv *github.GlobalSecurityAdvisory) error) (int, error) {
	opts := &github.ListGlobalSecurityAdvisoriesOptions{
		ListCursorOptions: github.ListCursorOptions{
			PerPage: perPage,
		},
	}
	if filter.Ecosystem != "" {
		opts.Ecosystem = github.String(filter.Ecosystem)
	}
	if filter.Severity != "" {
		opts.Severity = github.String(filter.Severity)
	}

	start := c.Clock.Now()
	var walked int
	for {
		advisories, res, err := c.Advisories.ListGlobalSecurityAdvisories(ctx, opts)
		if err != nil {
			return walked, xerrors.Errorf("failed to list global security advisories: %w", err)
		}
		logger.Debug("fetched advisory page", log.Int("count", len(advisories)))

		for _, adv := range advisories {
			if err := f(adv); err != nil {
				return walked, err
			}
			walked++
		}

		if res == nil || res.After == "" {
			break
		}
		opts.ListCursorOptions.After = res.After
	}
	logger.Info("fetched all advisories",
		log.Int("count", walked),
		log.String("elapsed", c.Clock.Since(start).String()))

	return walked, nil
}
