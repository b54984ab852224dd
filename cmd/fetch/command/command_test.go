package command

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"equityprices/internal/provider"
	"equityprices/internal/provider/fake"
)

func run(t *testing.T, cmd Commander, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	var buf bytes.Buffer
	app := &cli.App{
		Name:     "fetch",
		Writer:   &buf,
		Commands: []*cli.Command{cmd.Command()},
	}
	err := app.Run(append([]string{"fetch"}, args...))
	return buf.String(), err
}

func fakeRegistry() (*provider.Registry, *fake.Provider) {
	fp := fake.NewTracking()
	fp.ID = "yfinance"
	reg := provider.NewRegistry()
	reg.Register("yfinance", fp)
	return reg, fp
}

func TestVersion(t *testing.T) {
	out, err := run(t, ShowVersion{}, "version")
	require.NoError(t, err)
	require.Equal(t, Version+"\n", out)
}

func TestFetchQuotes(t *testing.T) {
	// Arrange
	reg, fp := fakeRegistry()
	fp.Missing = map[string]bool{"BBB": true}

	// Act
	out, err := run(t, FetchQuotes{Registry: reg}, "quotes", "--symbols", "AAA,BBB,CCC", "--chunk-size", "2")

	// Assert
	require.NoError(t, err)
	var got struct {
		Provider string                     `json:"provider"`
		Symbols  []string                   `json:"symbols"`
		Data     map[string]json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, "yfinance", got.Provider)
	require.Equal(t, []string{"AAA", "BBB", "CCC"}, got.Symbols)
	require.JSONEq(t, `{"error":"symbol not found in provider response"}`, string(got.Data["BBB"]))
	require.Contains(t, string(got.Data["AAA"]), `"price": 100`)
	require.Equal(t, [][]string{{"AAA", "BBB"}, {"CCC"}}, fp.Calls())
}

func TestFetchQuotes_Universe(t *testing.T) {
	reg, fp := fakeRegistry()
	dir := t.TempDir()
	path := filepath.Join(dir, "universe.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"SP500":["AAA","BBB"]}`), 0o600))
	t.Setenv("UNIVERSE_PATH", path)
	outPath := filepath.Join(dir, "out.json")

	out, err := run(t, FetchQuotes{Registry: reg}, "quotes", "--universe", "--out", outPath)

	require.NoError(t, err)
	require.Empty(t, out)
	b, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Contains(t, string(b), `"symbols": [`)
	require.Equal(t, [][]string{{"AAA", "BBB"}}, fp.Calls())
}

func TestFetchQuotes_Errors(t *testing.T) {
	reg, _ := fakeRegistry()

	_, err := run(t, FetchQuotes{Registry: reg}, "quotes")
	require.EqualError(t, err, "no symbols provided")

	_, err = run(t, FetchQuotes{Registry: reg}, "quotes", "-s", "AAA", "-p", "nope")
	require.ErrorContains(t, err, "unknown provider")

	_, err = run(t, FetchQuotes{Registry: reg}, "quotes", "-s", "AAA", "-n", "0")
	require.ErrorContains(t, err, "chunk size")
}

func TestShowUniverse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "universe.json")
	require.NoError(t, os.WriteFile(path, []byte(`["MSFT","AAPL"]`), 0o600))

	out, err := run(t, ShowUniverse{}, "universe", "--path", path)

	require.NoError(t, err)
	require.JSONEq(t, `{"symbols":["MSFT","AAPL"]}`, out)
}

func TestShowUniverse_Missing(t *testing.T) {
	_, err := run(t, ShowUniverse{}, "universe", "--path", filepath.Join(t.TempDir(), "none.json"))
	require.ErrorContains(t, err, "could not load universe")
}
