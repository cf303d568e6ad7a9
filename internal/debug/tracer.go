package debug

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gateplane-io/aci-cli/internal/logger"
	"github.com/gateplane-io/aci-cli/internal/table"
	"github.com/gateplane-io/aci-cli/pkg/aci"
)

// TokenTracer wraps the tokenizer to show how an ACI is split before parsing
type TokenTracer struct {
	Out io.Writer
}

// Trace tokenizes text, logs every token at debug level and writes a token
// table to Out. The tokens are returned for further inspection.
func (d *TokenTracer) Trace(text string) ([]aci.Token, error) {
	tokens := aci.Tokenize(text)
	logger.Debug("tokenized", "bytes", len(text), "tokens", len(tokens))

	rows := make([]table.Row, 0, len(tokens))
	for i, tok := range tokens {
		logger.Debug("token", "index", i, "kind", tok.Kind.String(), "pos", tok.Pos, "text", tok.Text)
		rows = append(rows, table.Row{strconv.Itoa(i), strconv.Itoa(tok.Pos), tok.Kind.String(), display(tok)})
	}

	if len(rows) == 0 {
		_, err := fmt.Fprintln(d.Out, "no tokens")
		return tokens, err
	}

	err := table.RenderTable(d.Out, table.TableOptions{
		Headers: []string{"#", "Pos", "Kind", "Text"},
		SortBy:  -1,
		GroupBy: -1,
	}, rows)
	return tokens, err
}

func display(tok aci.Token) string {
	if tok.Kind == aci.Quoted {
		return strconv.Quote(tok.Text)
	}
	return tok.Text
}
