// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

var jsonFlag = &cli.BoolFlag{
	Name:  "json",
	Usage: "Print the full tool result envelope",
}

// setupCommand handles setup operations for the config file and cache database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and the cache database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.SetupDatabase,
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Verify credentials against the catalog",
				Flags:  []cli.Flag{jsonFlag},
				Action: r.AuthStatus,
			},
		},
	}
}

// libraryCommand handles library snapshot and aggregation operations
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Fetch and analyze the saved library",
		Commands: []*cli.Command{
			{
				Name:  "fetch",
				Usage: "Fetch a full snapshot of followed artists or saved tracks",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "kind",
						Usage: "Entity kind: artists or tracks",
						Value: "tracks",
					},
					&cli.IntFlag{
						Name:  "page-size",
						Usage: "Page size per catalog request (max 50)",
						Value: 50,
					},
					jsonFlag,
				},
				Action: r.LibraryFetch,
			},
			{
				Name:  "artists",
				Usage: "Rank unique artists by saved-song count",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum artists to return (0 for all)",
					},
					jsonFlag,
				},
				Action: r.LibraryArtists,
			},
			{
				Name:  "albums",
				Usage: "List albums with at least N saved songs",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "min-songs",
						Usage: "Minimum saved songs per album",
						Value: 2,
					},
					jsonFlag,
				},
				Action: r.LibraryAlbums,
			},
			{
				Name:   "summary",
				Usage:  "Headline statistics across the library",
				Flags:  []cli.Flag{jsonFlag},
				Action: r.LibrarySummary,
			},
		},
	}
}

// searchCommand handles single and batch track matching
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search the catalog and score candidate matches",
		Commands: []*cli.Command{
			{
				Name:  "track",
				Usage: "Match a single track by title and artist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "title"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "artist",
						Aliases: []string{"a"},
						Usage:   "Artist name to match against",
					},
					jsonFlag,
				},
				Action: r.SearchTrack,
			},
			{
				Name:  "batch",
				Usage: "Match many tracks from a JSON query file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "JSON file with an array of {title, artist} queries",
						Required: true,
					},
					jsonFlag,
				},
				Action: r.SearchBatch,
			},
		},
	}
}

// reviewCommand handles the uncertain-match review round-trip
func reviewCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "review",
		Usage: "Export uncertain matches for review and import decisions",
		Commands: []*cli.Command{
			{
				Name:  "export",
				Usage: "Search a query file and export non-HIGH matches to CSV",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "JSON file with an array of {title, artist} queries",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "CSV output path",
						Value:   "review.csv",
					},
					jsonFlag,
				},
				Action: r.ReviewExport,
			},
			{
				Name:  "import",
				Usage: "Validate a reviewed CSV and resolve accepted track IDs",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Reviewed CSV path",
						Required: true,
					},
					jsonFlag,
				},
				Action: r.ReviewImport,
			},
		},
	}
}

// playlistCommand handles playlist creation and chunked commits
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlist",
		Usage: "Create playlists and commit tracks to them",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create an empty playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "description",
						Usage: "Playlist description",
					},
					&cli.BoolFlag{
						Name:  "public",
						Usage: "Make the playlist public",
					},
					jsonFlag,
				},
				Action: r.PlaylistCreate,
			},
			{
				Name:  "commit",
				Usage: "Append tracks to a playlist in chunked writes",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Playlist ID to commit to",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "File of track IDs (JSON array or one per line)",
						Required: true,
					},
					jsonFlag,
				},
				Action: r.PlaylistCommit,
			},
		},
	}
}

// cacheCommand handles local cache maintenance
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and clear the local response cache",
		Commands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show entry counts",
				Action: r.CacheStats,
			},
			{
				Name:   "clear",
				Usage:  "Remove every cached entry",
				Action: r.CacheClear,
			},
		},
	}
}

// toolCommand exposes the registry directly for scripted callers
func toolCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tool",
		Usage: "Invoke registered tools with raw JSON arguments",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List registered tools",
				Action: r.ToolList,
			},
			{
				Name:  "call",
				Usage: "Invoke a tool by name",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "args",
						Aliases: []string{"d"},
						Usage:   "JSON argument record",
						Value:   "{}",
					},
				},
				Action: r.ToolCall,
			},
		},
	}
}
