package main

import (
	"context"
	"fmt"
	"time"

	"github.com/peaceding/recordium/internal/models"
	"github.com/peaceding/recordium/internal/shared"
	"github.com/urfave/cli/v3"
)

func spaceMap(s *models.Space, boxCount int) map[string]any {
	return map[string]any{
		"id":         s.ID(),
		"name":       s.Name(),
		"user_id":    s.UserID(),
		"boxes":      boxCount,
		"created_at": s.CreatedAt().Format(time.RFC3339),
	}
}

// SpaceCreate creates a new space for the resolved user.
func (r *Runner) SpaceCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: space name", shared.ErrMissingArgument)
	}

	cat, closer, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}
	defer closer()

	userID, err := r.resolveUser(cat, cmd)
	if err != nil {
		return err
	}

	space, err := cat.CreateSpace(userID, name)
	if err != nil {
		return fmt.Errorf("failed to create space: %w", err)
	}

	r.logger.Infof("created space %s (%s)", space.Name(), space.ID())
	return r.writePlain("✓ Created space %q (%s)\n", space.Name(), space.ID())
}

// SpaceList prints the user's spaces in creation order.
func (r *Runner) SpaceList(ctx context.Context, cmd *cli.Command) error {
	cat, closer, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}
	defer closer()

	userID, err := r.resolveUser(cat, cmd)
	if err != nil {
		return err
	}

	spaces, err := cat.ListSpaces(userID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		data := make([]map[string]any, 0, len(spaces))
		for _, space := range spaces {
			boxes, err := cat.ListBoxes(space.ID())
			if err != nil {
				return err
			}
			data = append(data, spaceMap(space, len(boxes)))
		}
		return r.writeJSON(data, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Spaces (%d)", len(spaces)))
	for i, space := range spaces {
		boxes, err := cat.ListBoxes(space.ID())
		if err != nil {
			return err
		}
		r.writePlain("%d. %s (%d boxes)\n   ID: %s\n", i+1, space.Name(), len(boxes), space.ID())
	}
	return nil
}

// SpaceRename renames a space.
func (r *Runner) SpaceRename(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	name := cmd.StringArg("name")
	if id == "" || name == "" {
		return fmt.Errorf("%w: space ID and new name", shared.ErrMissingArgument)
	}

	cat, closer, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}
	defer closer()

	if err := cat.RenameSpace(id, name); err != nil {
		return fmt.Errorf("failed to rename space: %w", err)
	}

	return r.writePlain("✓ Renamed space %s to %q\n", id, name)
}

// SpaceDelete removes a space and the boxes inside it. Albums stay in the catalog.
func (r *Runner) SpaceDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: space ID", shared.ErrMissingArgument)
	}

	cat, closer, err := r.openCatalog(cmd)
	if err != nil {
		return err
	}
	defer closer()

	userID, err := r.resolveUser(cat, cmd)
	if err != nil {
		return err
	}

	if err := cat.DeleteSpace(userID, id); err != nil {
		return fmt.Errorf("failed to delete space: %w", err)
	}

	r.logger.Infof("deleted space %s", id)
	return r.writePlain("✓ Deleted space %s\n", id)
}
