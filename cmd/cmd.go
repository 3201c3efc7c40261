// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
			Value: true,
		},
	}
}

// setupCommand initializes configuration and the session database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml and initialize the session database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "rollback",
				Usage: "Revert the most recent migration instead",
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles account and session operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage your account and session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in and store the session",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Sources:  cli.EnvVars("DISH_EMAIL"),
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Sources:  cli.EnvVars("DISH_PASSWORD"),
						Required: true,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:    "register",
				Aliases: []string{"signup"},
				Usage:   "Create an account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Username", Required: true},
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Sources:  cli.EnvVars("DISH_PASSWORD"),
						Required: true,
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Forget the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show who is logged in and when the token expires",
				Flags:  jsonFlags(),
				Action: r.AuthStatus,
			},
		},
	}
}

// mealsCommand handles catalog lookups
func mealsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "meals",
		Aliases: []string{"meal", "m"},
		Usage:   "Search and view recipes",
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "List meals matching a filter",
				ArgsUsage: "<query>",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Usage:   "Filter type: category, area, ingredient, firstLetter",
						Value:   "category",
					},
				}, jsonFlags()...),
				Action: r.MealsSearch,
			},
			{
				Name:   "browse",
				Usage:  "List meals in the default category",
				Flags:  jsonFlags(),
				Action: r.MealsBrowse,
			},
			{
				Name:      "show",
				Usage:     "Show a recipe by name",
				ArgsUsage: "<meal name>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: txt, markdown, json",
						Value:   "txt",
					},
				},
				Action: r.MealsShow,
			},
			{
				Name:  "random",
				Usage: "Show a random recipe",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: txt, markdown, json",
						Value:   "txt",
					},
				},
				Action: r.MealsRandom,
			},
			{
				Name:      "suggest",
				Usage:     "Suggest known areas or categories",
				ArgsUsage: "<prefix>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Usage:   "Filter type: category or area",
						Value:   "category",
					},
				},
				Action: r.MealsSuggest,
			},
			{
				Name:      "open",
				Usage:     "Open a recipe's source page in the browser",
				ArgsUsage: "<meal name>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "video",
						Usage: "Open the video link instead",
					},
				},
				Action: r.MealsOpen,
			},
		},
	}
}

// favoritesCommand handles the saved favorites collection
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav", "f"},
		Usage:   "Manage your favorite recipes",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List saved favorites",
				Flags:  jsonFlags(),
				Action: r.FavoritesList,
			},
			{
				Name:      "add",
				Usage:     "Save a recipe by name",
				ArgsUsage: "<meal name>",
				Action:    r.FavoritesAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove a favorite by meal id",
				ArgsUsage: "<meal id>",
				Action:    r.FavoritesRemove,
			},
			{
				Name:  "export",
				Usage: "Write a recipe card for every favorite",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Card format: json, markdown, txt",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: dish_export_{timestamp})",
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Concurrent card writers (1-10)",
						Value:   5,
					},
					&cli.BoolFlag{
						Name:  "images",
						Usage: "Download thumbnails for markdown cards",
					},
				},
				Action: r.FavoritesExport,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive recipe browser",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "Initial filter type",
				Value:   "category",
			},
			&cli.StringFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "Initial query (default: catalog.default_category)",
			},
		},
		Action: r.TUI,
	}
}
