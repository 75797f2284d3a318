package cli

import (
	"bytes"
	"testing"

	"quiver/internal/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{in: "table", want: FormatTable},
		{in: "JSON", want: FormatJSON},
		{in: " yaml ", want: FormatYAML},
		{in: "", want: FormatTable},
		{in: "wide", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOutputFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unsupported output format")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type row struct {
	Name string   `json:"name"`
	Args []string `json:"args"`
}

func TestPrinter_Print(t *testing.T) {
	data := []row{{Name: "Add Numbers", Args: []string{"a", "b"}}}
	tbl := Table{Headers: []string{"name", "args"}, Rows: [][]string{{"Add Numbers", "a, b"}}}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewPrinter(&buf, FormatTable, false).Print(data, tbl))
		assert.Contains(t, buf.String(), "NAME")
		assert.Contains(t, buf.String(), "Add Numbers")
	})

	t.Run("table without headers", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewPrinter(&buf, FormatTable, true).Print(data, tbl))
		assert.NotContains(t, buf.String(), "NAME")
		assert.Contains(t, buf.String(), "a, b")
	})

	t.Run("empty table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewPrinter(&buf, FormatTable, false).Print(nil, Table{}))
		assert.Contains(t, buf.String(), "No items found")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewPrinter(&buf, FormatJSON, false).Print(data, tbl))
		assert.JSONEq(t, `[{"name":"Add Numbers","args":["a","b"]}]`, buf.String())
	})

	t.Run("yaml uses json tags in block style", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewPrinter(&buf, FormatYAML, false).Print(data, tbl))
		out := buf.String()
		assert.Contains(t, out, "name: Add Numbers")
		assert.NotContains(t, out, "{")
		assert.NotContains(t, out, `"`)
	})
}

func TestPrinter_PrintYAMLKeepsParamOrder(t *testing.T) {
	params := api.NewParams()
	params.Set("zeta", "")
	params.Set("alpha", "1")

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatYAML, false).Print(params, Table{}))
	out := buf.String()
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("zeta")), bytes.Index(buf.Bytes(), []byte("alpha")), out)
}

func TestPrinter_PrintValue(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatTable, false).PrintValue("5"))
	assert.Equal(t, "5\n", buf.String())

	buf.Reset()
	require.NoError(t, NewPrinter(&buf, FormatTable, false).PrintValue(map[string]int{"n": 1}))
	assert.JSONEq(t, `{"n":1}`, buf.String())

	buf.Reset()
	require.NoError(t, NewPrinter(&buf, FormatJSON, false).PrintValue("5"))
	assert.Equal(t, "\"5\"\n", buf.String())
}

func TestFormatParams(t *testing.T) {
	assert.Equal(t, "", FormatParams(nil))

	params := api.NewParams()
	params.Set("expr", "")
	params.Set("mode", "fast")
	params.Set("limit", 3)
	params.Set("opt", nil)
	assert.Equal(t, `expr, mode="fast", limit=3, opt=null`, FormatParams(params))
}
