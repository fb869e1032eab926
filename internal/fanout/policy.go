package fanout

// Decision is the outcome of the push/bypass policy for one post.
type Decision int

const (
	// Push replicates the post into every follower inbox.
	Push Decision = iota
	// Bypass skips materialized writes; the author is celebrity-scale
	// and followers read them through query-time assembly instead.
	Bypass
)

func (d Decision) String() string {
	if d == Bypass {
		return "bypass"
	}
	return "push"
}

// Decide picks push or bypass for an author with followerCount
// followers. A push costs one write per follower, so above the
// threshold the write amplification is no longer worth the read-time
// savings. The threshold always comes from configuration; there is no
// default hidden here.
func Decide(followerCount, threshold int64) Decision {
	if followerCount >= threshold {
		return Bypass
	}
	return Push
}
