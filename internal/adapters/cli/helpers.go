package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"text/tabwriter"

	"github.com/andrescamacho/starwars-movies-go/internal/application/movie/dto"
	"github.com/andrescamacho/starwars-movies-go/internal/infrastructure/bootstrap"
	"github.com/andrescamacho/starwars-movies-go/internal/infrastructure/config"
)

// operatorID identifies CLI invocations in audit records
const operatorID = "cli"

// environment carries the global flags shared by every subcommand
type environment struct {
	configPath string
	verbose    bool
	address    string
	options    []bootstrap.Option
}

func (e *environment) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(e.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if e.verbose {
		cfg.Logging.Level = "debug"
	}
	if e.address != "" {
		cfg.Server.Address = e.address
	}
	return cfg, nil
}

// openApplication loads the configuration and wires the application.
// Callers must Close the returned application.
func (e *environment) openApplication() (*bootstrap.Application, error) {
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, err
	}
	app, err := bootstrap.NewApplication(cfg, e.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return app, nil
}

// withApplication runs fn against a freshly wired application and closes it afterwards
func (e *environment) withApplication(ctx context.Context, fn func(ctx context.Context, app *bootstrap.Application) error) (err error) {
	app, err := e.openApplication()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close application: %w", closeErr)
		}
	}()
	return fn(app.Context(ctx), app)
}

func parseMovieID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid movie id %q: must be a positive integer", arg)
	}
	return id, nil
}

// writeMovieTable prints movies as aligned columns
func writeMovieTable(out io.Writer, movies []*dto.MovieDTO) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEPISODE\tTITLE\tDIRECTOR\tRELEASED")
	for _, m := range movies {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n",
			m.ID, m.EpisodeID, m.Title, m.Director, m.ReleaseDate.Format("2006-01-02"))
	}
	return tw.Flush()
}

// maskPassword hides the password component of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); !ok {
		return raw
	}
	u.User = url.UserPassword(u.User.Username(), "xxxxx")
	return u.String()
}

// prettyPrint formats JSON for display
func prettyPrint(v interface{}) string {
	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(bytes)
}
