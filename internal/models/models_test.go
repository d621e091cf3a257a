package models

import (
	"testing"
	"time"
)

func TestUserValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		user := NewUser(1, "acct-1", "Tester")
		if err := user.Validate(); err != nil {
			t.Errorf("expected valid user, got %v", err)
		}
	})

	t.Run("missing account id", func(t *testing.T) {
		user := NewUser(1, "", "Tester")
		if err := user.Validate(); err == nil {
			t.Error("expected validation error for missing account id")
		}
	})

	t.Run("blank name", func(t *testing.T) {
		user := NewUser(1, "acct-1", "   ")
		if err := user.Validate(); err == nil {
			t.Error("expected validation error for blank name")
		}
	})
}

func TestUserRename(t *testing.T) {
	user := NewUser(1, "acct-1", "Tester")
	before := user.UpdatedAt()
	time.Sleep(time.Millisecond)

	user.Rename("Renamed")

	if user.Name() != "Renamed" {
		t.Errorf("expected name Renamed, got %s", user.Name())
	}
	if !user.UpdatedAt().After(before) {
		t.Error("rename should bump the update timestamp")
	}
}

func TestSpaceValidate(t *testing.T) {
	t.Run("blank name", func(t *testing.T) {
		space := NewSpace(1, "user-1", "")
		if err := space.Validate(); err == nil {
			t.Error("expected validation error for blank name")
		}
	})

	t.Run("missing user", func(t *testing.T) {
		space := NewSpace(1, "", "Shelf")
		if err := space.Validate(); err == nil {
			t.Error("expected validation error for missing user")
		}
	})
}

func TestBoxValidate(t *testing.T) {
	box := NewBox(1, "space-1", "Jazz")
	if err := box.Validate(); err != nil {
		t.Errorf("expected valid box, got %v", err)
	}

	box = NewBox(1, "", "Jazz")
	if err := box.Validate(); err == nil {
		t.Error("expected validation error for missing space")
	}
}

func TestAlbumArtists(t *testing.T) {
	meta := AlbumMetadata{
		Name:     "Kind of Blue",
		Artists:  []string{"Miles Davis", "John Coltrane"},
		Source:   "spotify",
		SourceID: "abc",
	}
	album := NewAlbum(1, "user-1", meta)

	if album.PrimaryArtist() != "Miles Davis" {
		t.Errorf("expected primary artist Miles Davis, got %s", album.PrimaryArtist())
	}
	if album.ArtistsString() != "Miles Davis, John Coltrane" {
		t.Errorf("unexpected artists string: %s", album.ArtistsString())
	}

	empty := NewAlbum(1, "user-1", AlbumMetadata{Name: "X", Source: "spotify", SourceID: "x"})
	if empty.PrimaryArtist() != "未知艺术家" {
		t.Errorf("expected placeholder artist, got %s", empty.PrimaryArtist())
	}
}

func TestAlbumRefresh(t *testing.T) {
	pop := 50
	album := NewAlbum(1, "user-1", AlbumMetadata{
		Name: "A", Source: "spotify", SourceID: "abc", Popularity: &pop,
	})
	before := album.UpdatedAt()
	time.Sleep(time.Millisecond)

	newPop := 80
	album.Refresh(AlbumMetadata{
		Name: "A", Source: "spotify", SourceID: "abc", Popularity: &newPop,
	})

	if got := album.Popularity(); got == nil || *got != 80 {
		t.Errorf("expected popularity 80 after refresh, got %v", got)
	}
	if !album.UpdatedAt().After(before) {
		t.Error("refresh should bump the update timestamp")
	}
	if album.AddedAt() != album.CreatedAt() {
		t.Error("added at should back CreatedAt")
	}
}

func TestUserSettingsDisplayMode(t *testing.T) {
	settings := NewUserSettings(1, "user-1")

	if settings.DisplayMode() != DisplayModeSystem {
		t.Errorf("expected default display mode system, got %s", settings.DisplayMode())
	}

	if err := settings.SetDisplayMode(DisplayModeDark); err != nil {
		t.Errorf("expected dark mode to be valid, got %v", err)
	}

	if err := settings.SetDisplayMode("sepia"); err == nil {
		t.Error("expected error for unknown display mode")
	}

	if settings.DisplayMode() != DisplayModeDark {
		t.Error("invalid mode should not replace the current one")
	}
}
