package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/anonto42/social-network/internal/feed"
	"github.com/anonto42/social-network/internal/models"
	"github.com/fatih/color"
)

var (
	labelColor  = color.New(color.FgCyan, color.Bold)
	authorColor = color.New(color.FgGreen)
	dimColor    = color.New(color.Faint)
)

func renderPosts(w io.Writer, views []feed.PostView) {
	if len(views) == 0 {
		fmt.Fprintln(w, dimColor.Sprint("no posts"))
		return
	}
	for _, v := range views {
		fmt.Fprintf(w, "\n%s %s\n", labelColor.Sprint("Text:"), v.Title)
		fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("Author:"), authorColor.Sprint(v.AuthorName))
		fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("Post Id:"), v.ID)
		fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("Date:"), v.PostDate)

		fmt.Fprintln(w, labelColor.Sprint("Likes:"))
		for _, name := range v.LikedBy {
			fmt.Fprintf(w, " - %s\n", name)
		}

		fmt.Fprintln(w, labelColor.Sprint("Comments:"))
		for _, cv := range v.Comments {
			fmt.Fprintf(w, "   %s: %q\n", authorColor.Sprint(cv.AuthorName), cv.Text)
		}
	}
	fmt.Fprintln(w)
}

func renderUser(w io.Writer, u *models.User) {
	fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("Name:"), authorColor.Sprint(u.FullName()))
	fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("Id:"), u.ID.Hex())
	if len(u.Interests) > 0 {
		fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("Interests:"), strings.Join(u.Interests, ", "))
	}
	fmt.Fprintf(w, "%s %d  %s %d\n",
		labelColor.Sprint("Following:"), len(u.Following),
		labelColor.Sprint("Subscribers:"), len(u.Subscribers))
}
