package querier

import "context"

// placeholderClient answers every prompt with fixed marker text. It stands in
// for platforms whose credentials are missing or whose integration does not
// exist yet, so reports can show exactly why a platform produced no signal.
type placeholderClient struct {
	text string
}

func (p placeholderClient) Query(_ context.Context, _ string) (string, error) {
	return p.text, nil
}
