package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const coFundingFixture = `
grants:
  - {funder_id: f1, recipient_tax_id: "11-1111111", recipient_name: Food Bank, amount: 5000, fiscal_year: 2022, purpose: hunger relief}
  - {funder_id: f2, recipient_tax_id: "11-1111111", recipient_name: Food Bank, amount: 7000, fiscal_year: 2022, purpose: food pantry}
  - {funder_id: f1, recipient_tax_id: "22-2222222", recipient_name: Literacy Now, amount: 3000, fiscal_year: 2022}
  - {funder_id: f2, recipient_tax_id: "33-3333333", recipient_name: River Trust, amount: 9000, fiscal_year: 2022}
board:
  - {person_name: Jane Doe, organization_id: f1, role: chair, start_year: 2019}
`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grants.yaml")
	require.NoError(t, os.WriteFile(path, []byte(coFundingFixture), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), err
}

func findCommand(t *testing.T, name string) *cobra.Command {
	t.Helper()
	cmd, _, err := newRootCmd().Find([]string{name})
	require.NoError(t, err)
	require.Equal(t, name, cmd.Name())
	return cmd
}

func TestCommandFlags(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"fixture", "database-url", "analysis-file", "log-level"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), "persistent flag %s", name)
	}

	tests := map[string][]string{
		"analyze":   {"funders", "years", "geography", "min-funders", "purposes"},
		"network":   {"funders", "years", "geography", "board", "centrality"},
		"pathway":   {"funders", "years", "from", "to", "max-hops", "board"},
		"recommend": {"funders", "years", "target", "min-funders"},
		"seed":      {"migrate"},
	}
	for name, flags := range tests {
		t.Run(name, func(t *testing.T) {
			cmd := findCommand(t, name)
			for _, flag := range flags {
				assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %s", flag)
			}
		})
	}

	minFunders := findCommand(t, "analyze").Flags().Lookup("min-funders")
	assert.Equal(t, "2", minFunders.DefValue)
}

func TestAnalyzeFromFixture(t *testing.T) {
	out, err := execute(t, "analyze", "--fixture", writeFixture(t), "--funders", "f1,f2", "--years", "2022")
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.EqualValues(t, 2, result["funders_analyzed"])
	assert.EqualValues(t, 1, result["bundled_count"])

	recipients := result["recipients"].([]any)
	require.Len(t, recipients, 1)
	recipient := recipients[0].(map[string]any)
	assert.Equal(t, "Food Bank", recipient["display_name"])
	assert.EqualValues(t, 12000, recipient["total_funding"])
	assert.NotContains(t, out, "hunger relief", "purposes are off by default")
}

func TestAnalyzeWithPurposes(t *testing.T) {
	out, err := execute(t, "analyze", "--fixture", writeFixture(t), "--funders", "f1,f2", "--years", "2022", "--purposes")
	require.NoError(t, err)
	assert.Contains(t, out, "hunger relief")
}

func TestNetworkFromFixture(t *testing.T) {
	out, err := execute(t, "network", "--fixture", writeFixture(t), "--funders", "f1,f2", "--years", "2022", "--board")
	require.NoError(t, err)

	var report struct {
		Nodes []struct {
			ID   string `json:"id"`
			Kind string `json:"kind"`
		} `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	kinds := map[string]int{}
	for _, n := range report.Nodes {
		kinds[n.Kind]++
	}
	assert.Equal(t, 2, kinds["funder"])
	assert.Equal(t, 3, kinds["recipient"])
	assert.Equal(t, 1, kinds["person"])
}

func TestRequiredInputs(t *testing.T) {
	t.Run("missing funders", func(t *testing.T) {
		_, err := execute(t, "analyze", "--fixture", writeFixture(t), "--years", "2022")
		assert.ErrorContains(t, err, "funders")
	})

	t.Run("no data source", func(t *testing.T) {
		_, err := execute(t, "analyze", "--database-url", "", "--funders", "f1", "--years", "2022")
		assert.ErrorContains(t, err, "--fixture or --database-url")
	})

	t.Run("seed without fixture", func(t *testing.T) {
		_, err := execute(t, "seed", "--database-url", "postgres://localhost/none")
		assert.ErrorContains(t, err, "--fixture is required")
	})

	t.Run("zero threshold rejected", func(t *testing.T) {
		_, err := execute(t, "analyze", "--fixture", writeFixture(t), "--funders", "f1", "--years", "2022", "--min-funders", "0")
		assert.ErrorContains(t, err, "min_funders must be at least 1")
	})

	t.Run("invalid years rejected by the service", func(t *testing.T) {
		_, err := execute(t, "analyze", "--fixture", writeFixture(t), "--funders", "f1", "--years", "1200")
		assert.ErrorContains(t, err, "fiscal year")
	})
}
