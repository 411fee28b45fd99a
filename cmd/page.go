package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bgraf/baukasten/catalog"
	"github.com/bgraf/baukasten/cmd/tools"
	"github.com/bgraf/baukasten/config"
	"github.com/bgraf/baukasten/document"
	"github.com/bgraf/baukasten/logging"
)

// pageCmd represents the page command
var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "Interactive process to create a new page",
	RunE:  runGenPage,
}

func init() {
	genCmd.AddCommand(pageCmd)

	pageCmd.Flags().BoolP("edit", "e", false, "Open the new page in the configured editor")
}

const noBlock = "(empty page)"

func runGenPage(cmd *cobra.Command, args []string) error {
	if !config.HasPagesDirectory() {
		return fmt.Errorf("no pages directory configured")
	}

	logger := logging.FromContext(cmd.Context())

	store, err := document.NewStore(config.PagesDirectory(), logger)
	if err != nil {
		return err
	}

	blocks, err := catalog.Default()
	if err != nil {
		return err
	}

	// Read title
	title := ""
	{
		prompt := survey.Input{
			Message: "Title",
		}
		err := survey.AskOne(
			&prompt,
			&title,
			survey.WithValidator(survey.Required),
			survey.WithValidator(
				func(ans interface{}) error {
					if len(document.Slugify(ans.(string))) == 0 {
						return fmt.Errorf("empty slug, try letters and digits")
					}
					return nil
				},
			),
		)
		exitOnInterrupt(err)
	}

	slug := document.Slugify(title)
	{
		prompt := survey.Input{
			Message: "Slug",
			Default: slug,
		}
		err := survey.AskOne(
			&prompt,
			&slug,
			survey.WithValidator(func(ans interface{}) error {
				if _, err := store.PageBySlug(ans.(string)); err == nil {
					return document.ErrSlugTaken
				}
				return nil
			}),
		)
		exitOnInterrupt(err)
	}

	var tags []document.Tag
	{
		prompt := survey.Input{
			Message: "Tag",
		}
		for {
			tag := ""
			err := survey.AskOne(&prompt, &tag)
			exitOnInterrupt(err)

			tag = strings.TrimSpace(tag)
			if len(tag) == 0 {
				break
			}

			fmt.Println()
			tags = append(tags, document.Tag{Raw: tag})
		}
	}

	blockID := noBlock
	{
		options := []string{noBlock}
		for _, b := range blocks.Blocks() {
			options = append(options, b.ID)
		}

		prompt := &survey.Select{
			Message: "Start with block",
			Options: options,
			Description: func(value string, index int) string {
				if b, err := blocks.Block(value); err == nil {
					return b.Label
				}
				return ""
			},
		}
		err := survey.AskOne(prompt, &blockID)
		exitOnInterrupt(err)
	}

	body := ""
	if blockID != noBlock {
		block, err := blocks.Block(blockID)
		if err != nil {
			return err
		}
		body = block.Content
	}

	// Review
	{
		fmt.Printf("\ntitle: %s\nslug:  %s\ntags:  %v\nblock: %s\n\n", title, slug, tags, blockID)

		isConfirmed := true

		prompt := &survey.Confirm{
			Message: "Proceed",
			Default: isConfirmed,
		}

		err := survey.AskOne(prompt, &isConfirmed)
		exitOnInterrupt(err)

		if !isConfirmed {
			return nil
		}
	}

	page, err := store.Create(title, slug, tags, body)
	if err != nil {
		return err
	}

	logger.Info("created page", zap.String("path", page.Path), zap.Stringer("guid", page.GUID))

	if edit, _ := cmd.Flags().GetBool("edit"); edit {
		return tools.RunEditor(page.Path)
	}

	return nil
}

func exitOnInterrupt(err error) {
	if err == terminal.InterruptErr {
		os.Exit(1)
	}
}
