package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/anonto42/social-network/internal/apperrors"
	"github.com/anonto42/social-network/internal/models"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func signupCmd(c *cli) *cobra.Command {
	var req models.SignUpRequest
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account with --email and --password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Email, req.Password = c.email, c.password
			user, err := c.app.Accounts.SignUp(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s signed up as %s (%s)\n", color.GreenString("ok"), user.FullName(), user.ID.Hex())
			return nil
		},
	}
	cmd.Flags().StringVar(&req.FirstName, "first", "", "First name")
	cmd.Flags().StringVar(&req.LastName, "last", "", "Last name")
	cmd.Flags().StringSliceVar(&req.Interests, "interests", nil, "Comma separated interests")
	_ = cmd.MarkFlagRequired("first")
	return cmd
}

func loginCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Check credentials and show the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.login(cmd.Context())
			if err != nil {
				return err
			}
			renderUser(c.out, user)
			return nil
		},
	}
}

func subscribeCmd(c *cli, subscribe bool) *cobra.Command {
	use, short := "subscribe", "Follow a user by first name, or first and last name"
	if !subscribe {
		use, short = "unsubscribe", "Stop following a user"
	}
	return &cobra.Command{
		Use:   use + " <first> [last]",
		Short: short,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			current, err := c.login(ctx)
			if err != nil {
				return err
			}
			target, err := findByName(c, cmd, args)
			if err != nil {
				return err
			}
			if subscribe {
				_, err = c.app.Graph.Subscribe(ctx, current, target)
			} else {
				_, err = c.app.Graph.Unsubscribe(ctx, current, target)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s %sd %s\n", color.GreenString("ok"), use, target.FullName())
			return nil
		},
	}
}

func postCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "post <text...>",
		Short: "Write a post",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.login(cmd.Context())
			if err != nil {
				return err
			}
			post, err := c.app.Engagement.WritePost(cmd.Context(), user, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s posted %s\n", color.GreenString("ok"), post.ID.Hex())
			return nil
		},
	}
}

func likeCmd(c *cli, like bool) *cobra.Command {
	use := "like"
	if !like {
		use = "unlike"
	}
	return &cobra.Command{
		Use:   use + " <post-id>",
		Short: strings.ToUpper(use[:1]) + use[1:] + " a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.login(cmd.Context())
			if err != nil {
				return err
			}
			if like {
				err = c.app.Engagement.LikePost(cmd.Context(), user, args[0])
			} else {
				err = c.app.Engagement.UnlikePost(cmd.Context(), user, args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s %sd %s\n", color.GreenString("ok"), use, args[0])
			return nil
		},
	}
}

func commentCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "comment <post-id> <text...>",
		Short: "Comment on a post",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			user, err := c.login(ctx)
			if err != nil {
				return err
			}
			post, err := c.app.Resolver.FindPostByID(ctx, args[0])
			if err != nil {
				return err
			}
			if err := c.app.Engagement.WriteComment(ctx, user, strings.Join(args[1:], " "), post); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s commented on %s\n", color.GreenString("ok"), args[0])
			return nil
		},
	}
}

func feedCmd(c *cli) *cobra.Command {
	var all, mine, byUser bool
	cmd := &cobra.Command{
		Use:   "feed [first [last]]",
		Short: "Show posts of followed users, or --all, --mine or --user",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			user, err := c.login(ctx)
			if err != nil {
				return err
			}

			var posts []models.Post
			switch {
			case all:
				posts, err = c.app.Feed.AllPosts(ctx)
			case mine:
				posts, err = c.app.Feed.PostsOfUser(ctx, user)
			case byUser:
				var author *models.User
				if author, err = findByName(c, cmd, args); err != nil {
					return err
				}
				posts, err = c.app.Feed.PostsOfUser(ctx, author)
			default:
				posts, err = c.app.Feed.PostsOfFollowedUsers(ctx, user)
				if errors.Is(err, apperrors.ErrNoContent) {
					posts, err = nil, nil
				}
			}
			if err != nil {
				return err
			}

			views, err := c.app.Feed.Enrich(ctx, posts)
			if err != nil {
				return err
			}
			renderPosts(c.out, views)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Every post, newest first")
	cmd.Flags().BoolVar(&mine, "mine", false, "Your own posts")
	cmd.Flags().BoolVar(&byUser, "user", false, "Posts of the user named by the arguments")
	cmd.MarkFlagsMutuallyExclusive("all", "mine", "user")
	return cmd
}

func findCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "find <first> [last]",
		Short: "Look a user up by name",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := findByName(c, cmd, args)
			if err != nil {
				return err
			}
			renderUser(c.out, user)
			return nil
		},
	}
}

func repairEdgesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "repair-edges",
		Short: "Rebuild subscriber sets from following sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := c.app.Graph.RepairEdges(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s scanned %d users, added %d, removed %d, dangling %d\n",
				color.GreenString("ok"), report.UsersScanned, report.SubscribersAdded,
				report.SubscribersRemoved, report.DanglingFollowing)
			return nil
		},
	}
}

func findByName(c *cli, cmd *cobra.Command, args []string) (*models.User, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("a first name is required")
	}
	if len(args) == 1 {
		return c.app.Resolver.FindUserByFirstName(cmd.Context(), args[0])
	}
	return c.app.Resolver.FindUserByFullName(cmd.Context(), args[0], args[1])
}
