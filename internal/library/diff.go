package library

import (
	"slices"
	"time"

	"github.com/samber/lo"
)

// Diff returns the notifications describing the changes from old to updated.
// A nil old snapshot is treated as empty.
//
// Order is deterministic: the All* notifications first, then per-entity
// notifications grouped by kind and sorted by id.
func Diff(old, updated *Snapshot) []ChangeNotification {
	if old == nil {
		old = NewSnapshot(nil, nil, nil, nil)
	}
	if updated == nil {
		updated = NewSnapshot(nil, nil, nil, nil)
	}

	albums := map[int64]struct{}{}
	artists := map[int64]struct{}{}
	playlists := map[int64]struct{}{}
	var result []ChangeNotification

	changedTracks := diffTracks(old, updated)
	if len(changedTracks) > 0 {
		result = append(result, AllTracks{})
	}
	for _, t := range changedTracks {
		albums[t.AlbumID] = struct{}{}
		artists[t.ArtistID] = struct{}{}
	}
	// Playlists referencing a changed track show stale track data.
	changedTrackIDs := lo.SliceToMap(changedTracks, func(t Track) (int64, struct{}) {
		return t.ID, struct{}{}
	})
	for _, p := range updated.Playlists {
		for _, id := range p.TrackIDs {
			if _, ok := changedTrackIDs[id]; ok {
				playlists[p.ID] = struct{}{}
				break
			}
		}
	}

	membership, changed := diffEntities(old.Albums, updated.Albums,
		func(a Album) int64 { return a.ID },
		func(a, b Album) bool { return a == b })
	if membership {
		result = append(result, AllAlbums{})
	}
	for _, a := range changed {
		albums[a.ID] = struct{}{}
		artists[a.ArtistID] = struct{}{}
	}

	membership, changedArtists := diffEntities(old.Artists, updated.Artists,
		func(a Artist) int64 { return a.ID },
		func(a, b Artist) bool { return a == b })
	if membership {
		result = append(result, AllArtists{})
	}
	for _, a := range changedArtists {
		artists[a.ID] = struct{}{}
	}

	membership, changedPlaylists := diffEntities(old.Playlists, updated.Playlists,
		func(p Playlist) int64 { return p.ID },
		func(a, b Playlist) bool { return a.Title == b.Title && slices.Equal(a.TrackIDs, b.TrackIDs) })
	if membership {
		result = append(result, AllPlaylists{})
	}
	for _, p := range changedPlaylists {
		playlists[p.ID] = struct{}{}
	}

	for _, id := range existingIDs(albums, old.albumByID, updated.albumByID) {
		result = append(result, AlbumChanged{ID: id})
	}
	for _, id := range existingIDs(artists, old.artistByID, updated.artistByID) {
		result = append(result, ArtistChanged{ID: id})
	}
	for _, id := range existingIDs(playlists, old.playlistByID, updated.playlistByID) {
		result = append(result, PlaylistChanged{ID: id})
	}
	return result
}

// diffTracks returns every track that was added, removed or modified, in
// both its old and new versions.
func diffTracks(old, updated *Snapshot) []Track {
	var changed []Track
	for _, t := range updated.Tracks {
		prev, ok := old.TrackByID(t.ID)
		if !ok {
			changed = append(changed, t)
			continue
		}
		if !sameTrack(prev, t) {
			changed = append(changed, prev, t)
		}
	}
	for _, t := range old.Tracks {
		if _, ok := updated.TrackByID(t.ID); !ok {
			changed = append(changed, t)
		}
	}
	return changed
}

func sameTrack(a, b Track) bool {
	if !a.AddedAt.Equal(b.AddedAt) {
		return false
	}
	a.AddedAt, b.AddedAt = time.Time{}, time.Time{}
	return a == b
}

// diffEntities reports whether the id set changed, and returns the entities
// whose fields changed (both versions) or that were added or removed.
func diffEntities[T any](old, updated []T, id func(T) int64, equal func(a, b T) bool) (bool, []T) {
	oldByID := lo.KeyBy(old, id)
	newByID := lo.KeyBy(updated, id)

	membership := false
	var changed []T
	for _, e := range updated {
		prev, ok := oldByID[id(e)]
		switch {
		case !ok:
			membership = true
			changed = append(changed, e)
		case !equal(prev, e):
			changed = append(changed, prev, e)
		}
	}
	for _, e := range old {
		if _, ok := newByID[id(e)]; !ok {
			membership = true
			changed = append(changed, e)
		}
	}
	return membership, changed
}

// existingIDs returns the sorted ids of set that exist in either snapshot.
// This drops the zero ids of tracks without album or artist.
func existingIDs(set map[int64]struct{}, old, updated map[int64]int) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		_, inOld := old[id]
		_, inNew := updated[id]
		if inNew || inOld {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}
