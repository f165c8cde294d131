package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"composegen/internal/classify"
	"composegen/internal/common/fsutil"
	"composegen/pkg/types"
)

func (a *app) probeCmd() *cobra.Command {
	var (
		url       string
		labels    string
		batchSize int
		textsFile string
		timeout   time.Duration
	)
	cmd := &cobra.Command{
		Use:     "probe [TEXT...]",
		Short:   "Send a classification request to a generated service and print the labels",
		Example: "  composegen probe --url http://gpu-node-1:8100 --labels economy,sports,politics \"Central bank raises key rate\"",
		RunE: func(cmd *cobra.Command, args []string) error {
			texts := append([]string(nil), args...)
			if textsFile != "" {
				more, err := readLines(textsFile)
				if err != nil {
					return err
				}
				texts = append(texts, more...)
			}
			req := types.ClassifyRequest{
				Texts:     texts,
				Labels:    types.Shared(splitCSV(labels)...),
				BatchSize: batchSize,
			}
			c := &classify.Client{BaseURL: url, Timeout: timeout}
			start := time.Now()
			resp, err := c.Classify(cmd.Context(), req)
			if err != nil {
				return err
			}
			a.log.Debug().Str("url", url).Int("texts", len(texts)).Dur("dur", time.Since(start)).Msg("probe done")
			for i, text := range texts {
				fmt.Fprintf(a.stdout, "%s -> %s\n", text, resp.Result[i])
			}
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&url, "url", "http://localhost:8100", "Base URL of the inference service")
	fl.StringVar(&labels, "labels", "", "Comma separated candidate labels, shared by every text")
	fl.IntVar(&batchSize, "batch-size", 0, "Batch size hint for the service")
	fl.StringVar(&textsFile, "texts-file", "", "File with one text per line")
	fl.DurationVar(&timeout, "timeout", 60*time.Second, "Request timeout")
	return cmd
}

// readLines returns the non-blank lines of path.
func readLines(path string) ([]string, error) {
	b, err := fsutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, line := range strings.Split(string(b), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out, nil
}
