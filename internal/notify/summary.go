package notify

import (
	"fmt"
	"strings"

	"github.com/hamed0406/certwatch/internal/domain"
)

// BatchAlert renders the title and body for a finished batch that needs
// attention. Only WARNING and ERROR rows are listed; OK hosts are noise in
// a notification channel.
func BatchAlert(res *domain.BatchResult) (title, text string) {
	title = fmt.Sprintf("🔒 Certificate check: %d warning(s), %d error(s) of %d host(s)",
		res.Summary.Warning, res.Summary.Error, res.Summary.Total)

	var b strings.Builder
	for _, o := range res.Outcomes {
		switch o.Status {
		case domain.StatusWarning:
			fmt.Fprintf(&b, "%s:%d expires in %d day(s)\n", o.Host, o.Port, *o.DaysLeft)
		case domain.StatusError:
			fmt.Fprintf(&b, "%s:%d check failed: %s\n", o.Host, o.Port, o.Error)
		}
	}
	return title, strings.TrimRight(b.String(), "\n")
}

// NeedsAlert reports whether a batch is worth notifying about.
func NeedsAlert(res *domain.BatchResult) bool {
	return res.Summary.Warning > 0 || res.Summary.Error > 0
}
