package pkg

import (
	"context"
	"os"
	"time"

	"github.com/briandowns/spinner"
	gh "github.com/google/go-github/v62/github"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/ghsa2md/pkg/advisory"
	"github.com/aquasecurity/ghsa2md/pkg/github"
	"github.com/aquasecurity/ghsa2md/pkg/log"
	"github.com/aquasecurity/ghsa2md/pkg/markdown"
)

const tokenEnv = "GITHUB_TOKEN"

// ErrMissingCredential is the only fatal error this tool raises itself.
// Everything after authentication propagates from the client library as-is.
var ErrMissingCredential = xerrors.New("missing GITHUB_TOKEN environment variable")

// AdvisoryWalker is the collaborator interface the convert action consumes.
type AdvisoryWalker interface {
	WalkAdvisories(ctx context.Context, filter github.Filter, f func(adv *gh.GlobalSecurityAdvisory) error) (int, error)
}

func (ac AppConfig) convert(c *cli.Context) error {
	token := os.Getenv(tokenEnv)
	if token == "" {
		return ErrMissingCredential
	}

	eco := advisory.Ecosystem(c.String("ecosystem"))
	if err := eco.Validate(); err != nil {
		return err
	}
	var sev string
	if s := c.String("severity"); s != "" {
		parsed, err := advisory.NewSeverity(s)
		if err != nil {
			return err
		}
		sev = parsed.String()
	}

	ctx := context.Background()
	walker := ac.Walker
	if walker == nil {
		walker = github.NewClient(ctx, token)
	}
	output := ac.Output
	if output == nil {
		output = os.Stdout
	}

	sp := startSpinner()
	defer stopSpinner(sp)

	w := markdown.NewWriter(output)
	_, err := walker.WalkAdvisories(ctx, github.Filter{
		Ecosystem: eco.String(),
		Severity:  sev,
	}, func(adv *gh.GlobalSecurityAdvisory) error {
		rec := advisory.FromGlobalSecurityAdvisory(adv)
		log.Debug("formatting advisory",
			log.String("ghsa_id", rec.GhsaID),
			log.String("severity", rec.Severity.Colorize()))
		return w.Write(rec)
	})
	if err != nil {
		return xerrors.Errorf("convert error: %w", err)
	}

	return nil
}

// startSpinner gives fetch feedback on stderr so stdout stays a clean data
// stream. Skipped when stderr is not a terminal.
func startSpinner() *spinner.Spinner {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return nil
	}
	sp := spinner.New(spinner.CharSets[11], 100*time.Millisecond,
		spinner.WithWriter(os.Stderr))
	sp.Suffix = " Fetching advisories..."
	sp.Start()
	return sp
}

func stopSpinner(sp *spinner.Spinner) {
	if sp != nil {
		sp.Stop()
	}
}
