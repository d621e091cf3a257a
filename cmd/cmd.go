// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func accountFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "account",
		Aliases: []string{"a"},
		Usage:   "Account identifier for the catalog user",
		Value:   "local",
	}
}

// setupCommand initializes the database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize database and run migrations",
		Flags: []cli.Flag{configFlag()},
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create the catalog database and apply migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
		},
		Action: r.SetupDatabase,
	}
}

// userCommand manages catalog users.
func userCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "Manage catalog users",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Create the user for an account, or return the existing one",
				Flags: []cli.Flag{
					configFlag(),
					accountFlag(),
					&cli.StringFlag{
						Name:  "name",
						Usage: "Display name for a newly created user",
					},
				},
				Action: r.UserInit,
			},
			{
				Name:  "show",
				Usage: "Show the user and their catalog summary",
				Flags: []cli.Flag{
					configFlag(),
					accountFlag(),
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
				},
				Action: r.UserShow,
			},
			{
				Name:  "delete",
				Usage: "Delete the user and everything they own",
				Flags: []cli.Flag{configFlag(), accountFlag()},
				Action: r.UserDelete,
			},
		},
	}
}

// spaceCommand manages top-level spaces.
func spaceCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "space",
		Usage: "Manage spaces, the top-level grouping of boxes",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a new space",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name", UsageText: "Space name"},
				},
				Flags:  []cli.Flag{configFlag(), accountFlag()},
				Action: r.SpaceCreate,
			},
			{
				Name:  "list",
				Usage: "List spaces in creation order",
				Flags: []cli.Flag{
					configFlag(),
					accountFlag(),
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
				},
				Action: r.SpaceList,
			},
			{
				Name:  "rename",
				Usage: "Rename a space",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id", UsageText: "Space ID"},
					&cli.StringArg{Name: "name", UsageText: "New name"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.SpaceRename,
			},
			{
				Name:  "delete",
				Usage: "Delete a space and the boxes inside it",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id", UsageText: "Space ID"},
				},
				Flags:  []cli.Flag{configFlag(), accountFlag()},
				Action: r.SpaceDelete,
			},
		},
	}
}

// boxCommand manages boxes and their album memberships.
func boxCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "box",
		Usage: "Manage boxes and the albums filed in them",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a box inside a space",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "space", UsageText: "Space ID"},
					&cli.StringArg{Name: "name", UsageText: "Box name"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.BoxCreate,
			},
			{
				Name:  "rename",
				Usage: "Rename a box",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id", UsageText: "Box ID"},
					&cli.StringArg{Name: "name", UsageText: "New name"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.BoxRename,
			},
			{
				Name:  "delete",
				Usage: "Delete a box, leaving its albums in the catalog",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id", UsageText: "Box ID"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.BoxDelete,
			},
			{
				Name:  "add",
				Usage: "File an album into a box",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "box", UsageText: "Box ID"},
					&cli.StringArg{Name: "album", UsageText: "Album ID"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.BoxAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove an album from a box",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "box", UsageText: "Box ID"},
					&cli.StringArg{Name: "album", UsageText: "Album ID"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.BoxRemove,
			},
			{
				Name:  "show",
				Usage: "Show a box and the albums filed in it",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id", UsageText: "Box ID"},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
				},
				Action: r.BoxShow,
			},
			{
				Name:  "export",
				Usage: "Export a box to CSV, Markdown, or plain text",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id", UsageText: "Box ID"},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, markdown, or text",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory or base path, defaults to the box ID",
					},
				},
				Action: r.BoxExport,
			},
		},
	}
}

// albumCommand manages the album catalog itself.
func albumCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "album",
		Usage: "Manage the album catalog",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Fetch an album from Spotify and add it to the catalog",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id", UsageText: "Spotify album ID"},
				},
				Flags: []cli.Flag{
					configFlag(),
					accountFlag(),
					&cli.StringFlag{
						Name:  "box",
						Usage: "Box ID to file the album into",
					},
				},
				Action: r.AlbumAdd,
			},
			{
				Name:  "list",
				Usage: "List every album in the catalog",
				Flags: []cli.Flag{
					configFlag(),
					accountFlag(),
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
				},
				Action: r.AlbumList,
			},
			{
				Name:  "delete",
				Usage: "Delete an album and its box memberships",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id", UsageText: "Album ID"},
				},
				Flags:  []cli.Flag{configFlag(), accountFlag()},
				Action: r.AlbumDelete,
			},
			{
				Name:  "search",
				Usage: "Search Spotify for albums",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query", UsageText: "Search query"},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: 10,
					},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
				},
				Action: r.AlbumSearch,
			},
		},
	}
}

// spotifyCommand handles Spotify authorization.
func spotifyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "spotify",
		Aliases: []string{"spot"},
		Usage:   "Spotify account operations",
		Commands: []*cli.Command{
			{
				Name:   "auth",
				Usage:  "Authorize with Spotify using OAuth2",
				Flags:  []cli.Flag{configFlag(), accountFlag()},
				Action: r.SpotifyAuth,
			},
			{
				Name:   "status",
				Usage:  "Show the current authorization state",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SpotifyStatus,
			},
			{
				Name:  "profile",
				Usage: "Show the authorized Spotify profile",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
				},
				Action: r.SpotifyProfile,
			},
			{
				Name:   "logout",
				Usage:  "Discard the stored Spotify credential",
				Flags:  []cli.Flag{configFlag(), accountFlag()},
				Action: r.SpotifyLogout,
			},
		},
	}
}

// syncCommand runs bulk operations against the connected service.
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Bulk operations between Spotify and the catalog",
		Commands: []*cli.Command{
			{
				Name:  "refresh",
				Usage: "Refresh metadata for every album in the catalog",
				Flags: []cli.Flag{
					configFlag(),
					accountFlag(),
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent refresh workers",
						Value: 5,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Maximum API requests per second",
						Value: 5.0,
					},
				},
				Action: r.SyncRefresh,
			},
			{
				Name:  "import",
				Usage: "Import saved albums from the Spotify library",
				Flags: []cli.Flag{
					configFlag(),
					accountFlag(),
					&cli.StringFlag{
						Name:  "box",
						Usage: "Box ID to file imported albums into",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of albums to import (0 for all)",
					},
					&cli.IntFlag{
						Name:  "page-size",
						Usage: "Library page size per request",
						Value: 50,
					},
				},
				Action: r.SyncImport,
			},
		},
	}
}

// tuiCommand launches the interactive catalog browser.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Browse the catalog interactively",
		Flags:  []cli.Flag{configFlag(), accountFlag()},
		Action: r.TUI,
	}
}
