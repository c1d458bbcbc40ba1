package bookmark

import (
	"cmp"
	"slices"
	"unicode/utf8"
)

type Deduplicator struct {
	matcher          *Matcher
	threshold        float64
	preferShorterURL bool
}

func NewDeduplicator(threshold float64, preferShorterURL bool) *Deduplicator {
	return &Deduplicator{
		matcher:          NewMatcher(),
		threshold:        threshold,
		preferShorterURL: preferShorterURL,
	}
}

// Run partitions items into kept and discarded. Exact duplicates (same Key)
// are collapsed first; the survivors are then sorted by folder and title and
// same-folder neighbours with similar titles are collapsed. Bookmarks are
// never modified and every input bookmark ends up in exactly one result.
func (d *Deduplicator) Run(items []*Bookmark) (kept, discarded []*Bookmark) {
	survivors, discarded := d.collapseExact(items)
	survivors, softDiscarded := d.collapseSimilar(survivors)
	return survivors, append(discarded, softDiscarded...)
}

func (d *Deduplicator) collapseExact(items []*Bookmark) (survivors, discarded []*Bookmark) {
	survivors = make([]*Bookmark, 0, len(items))
	slots := make(map[string]int, len(items))

	for _, b := range items {
		key := b.Key()
		if key == "" {
			survivors = append(survivors, b)
			continue
		}

		slot, seen := slots[key]
		if !seen {
			slots[key] = len(survivors)
			survivors = append(survivors, b)
			continue
		}

		keep, drop := d.resolve(survivors[slot], b, true)
		survivors[slot] = keep
		discarded = append(discarded, drop)
	}

	return survivors, discarded
}

// collapseSimilar scans each anchor against the following entries of the same
// folder. An anchor may absorb several neighbours; when a neighbour wins the
// tie-break it becomes the anchor and the scan of the folder restarts, so the
// new anchor is compared against every remaining neighbour.
func (d *Deduplicator) collapseSimilar(items []*Bookmark) (survivors, discarded []*Bookmark) {
	survivors = slices.Clone(items)
	slices.SortStableFunc(survivors, func(a, b *Bookmark) int {
		return cmp.Or(cmp.Compare(a.FolderPath, b.FolderPath), cmp.Compare(a.Title, b.Title))
	})

	for i := 0; i < len(survivors)-1; i++ {
		anchor := survivors[i]

		for j := i + 1; j < len(survivors) && survivors[j].FolderPath == anchor.FolderPath; {
			neighbour := survivors[j]
			if anchor.URL == "" || neighbour.URL == "" ||
				d.matcher.Similarity(anchor.Title, neighbour.Title) < d.threshold {
				j++
				continue
			}

			keep, drop := d.resolve(anchor, neighbour, false)
			discarded = append(discarded, drop)
			survivors = slices.Delete(survivors, j, j+1)

			if keep != anchor {
				survivors[i] = keep
				anchor = keep
				j = i + 1
			}
		}
	}

	return survivors, discarded
}

// resolve picks the winner of a duplicate pair. With preferShorterURL the
// shorter normalized URL wins. Exact duplicates share that URL, so for them
// rawTieBreak lets the shorter raw URL decide. Any remaining tie, a missing
// URL or a disabled policy keeps the first argument.
func (d *Deduplicator) resolve(a, b *Bookmark, rawTieBreak bool) (keep, drop *Bookmark) {
	if !d.preferShorterURL {
		return a, b
	}

	au, bu := cmp.Or(a.NormalizedURL, a.URL), cmp.Or(b.NormalizedURL, b.URL)
	if au == "" || bu == "" {
		return a, b
	}

	if la, lb := utf8.RuneCountInString(au), utf8.RuneCountInString(bu); la != lb {
		if la < lb {
			return a, b
		}
		return b, a
	}

	if rawTieBreak && a.URL != "" && b.URL != "" && utf8.RuneCountInString(b.URL) < utf8.RuneCountInString(a.URL) {
		return b, a
	}
	return a, b
}
