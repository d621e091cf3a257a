package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/peaceding/recordium/internal/models"
	"github.com/peaceding/recordium/internal/shared"
	"github.com/urfave/cli/v3"
)

func userMap(u *models.User) map[string]any {
	return map[string]any{
		"id":                     u.ID(),
		"account_id":             u.AccountID(),
		"name":                   u.Name(),
		"spotify_authorized":     u.SpotifyAuthorized(),
		"apple_music_authorized": u.AppleMusicAuthorized(),
		"created_at":             u.CreatedAt().Format(time.RFC3339),
	}
}

// UserInit creates the user for an account if one does not exist yet.
// Running it again for the same account returns the existing user unchanged.
func (r *Runner) UserInit(ctx context.Context, cmd *cli.Command) error {
	cat, closer, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}
	defer closer()

	account := cmd.String("account")
	name := cmd.String("name")
	if name == "" {
		name = account
	}

	user, err := cat.FindOrCreateUser(account, name)
	if err != nil {
		return fmt.Errorf("failed to initialize user: %w", err)
	}

	r.logger.Infof("user ready: %s (%s)", user.Name(), user.ID())
	return r.writePlain("✓ User %q ready for account %s\n", user.Name(), user.AccountID())
}

// UserShow prints the user and a summary of what they own.
func (r *Runner) UserShow(ctx context.Context, cmd *cli.Command) error {
	cat, closer, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}
	defer closer()

	user, err := cat.GetUserByAccount(cmd.String("account"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return fmt.Errorf("%w: no user for account %s, run 'recordium user init' first", shared.ErrNotFound, cmd.String("account"))
		}
		return err
	}

	spaces, err := cat.ListSpaces(user.ID())
	if err != nil {
		return err
	}

	albums, err := cat.ListAlbums(user.ID())
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		data := userMap(user)
		data["spaces"] = len(spaces)
		data["albums"] = len(albums)
		return r.writeJSON(data, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("User: %s", user.Name()))
	r.writePlain("Account:  %s\n", user.AccountID())
	r.writePlain("Spaces:   %d\n", len(spaces))
	r.writePlain("Albums:   %d\n", len(albums))
	r.writePlain("Spotify:  %s\n", authorizedLabel(user.SpotifyAuthorized()))
	return nil
}

// UserDelete removes the user and cascades through their spaces, boxes, and albums.
func (r *Runner) UserDelete(ctx context.Context, cmd *cli.Command) error {
	cat, closer, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}
	defer closer()

	account := cmd.String("account")
	user, err := cat.GetUserByAccount(account)
	if err != nil {
		return err
	}

	if err := cat.DeleteUser(user.ID()); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	r.logger.Infof("deleted user %s and their catalog", user.ID())
	return r.writePlain("✓ Deleted user %q and everything they owned\n", user.Name())
}

func authorizedLabel(authorized bool) string {
	if authorized {
		return "authorized"
	}
	return "not authorized"
}
