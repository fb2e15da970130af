package cache

import "launch_notifier/internal/domain"

// IsChanged reports whether curr differs from prev in a way worth a new
// notification. Only status, window start, info and video URLs, and NET
// are compared.
func IsChanged(prev, curr domain.Launch) bool {
	_, changed := changedField(prev, curr)
	return changed
}

func changedField(prev, curr domain.Launch) (string, bool) {
	switch {
	case !equalOptional(prev.StatusName(), curr.StatusName()):
		return "status", true
	case !equalOptional(prev.WindowStart, curr.WindowStart):
		return "window_start", true
	case !sameURLSet(prev.InfoURLs, curr.InfoURLs):
		return "info_urls", true
	case !sameURLSet(prev.VidURLs, curr.VidURLs):
		return "vid_urls", true
	case !equalOptional(prev.Net, curr.Net):
		return "net", true
	}
	return "", false
}

func equalOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sameURLSet(a, b []domain.LinkURL) bool {
	setA := urlSet(a)
	setB := urlSet(b)
	if len(setA) != len(setB) {
		return false
	}
	for u := range setA {
		if _, ok := setB[u]; !ok {
			return false
		}
	}
	return true
}

func urlSet(links []domain.LinkURL) map[string]struct{} {
	set := make(map[string]struct{}, len(links))
	for _, link := range links {
		set[link.URL] = struct{}{}
	}
	return set
}
