package reddit

import (
	"fmt"
	"net/url"
	"strings"
)

// SubmissionFullname returns the t3_ fullname of the submission a permalink
// points at. Comment permalinks resolve to their parent submission.
func SubmissionFullname(permalink string) (string, error) {
	parts, err := commentsPath(permalink)
	if err != nil {
		return "", err
	}
	return KindLink + "_" + parts[0], nil
}

// CommentFullname returns the t1_ fullname of a comment permalink of the
// form /r/<sub>/comments/<post>/<slug>/<comment>/.
func CommentFullname(permalink string) (string, error) {
	parts, err := commentsPath(permalink)
	if err != nil {
		return "", err
	}
	if len(parts) < 3 || parts[2] == "" {
		return "", fmt.Errorf("permalink %q does not point at a comment", permalink)
	}
	return KindComment + "_" + parts[2], nil
}

// commentsPath returns the path segments following "comments".
func commentsPath(permalink string) ([]string, error) {
	u, err := url.Parse(permalink)
	if err != nil {
		return nil, fmt.Errorf("invalid permalink %q: %w", permalink, err)
	}

	var segments []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	for i, s := range segments {
		if s == "comments" && i+1 < len(segments) {
			return segments[i+1:], nil
		}
	}
	return nil, fmt.Errorf("permalink %q has no comments segment", permalink)
}
