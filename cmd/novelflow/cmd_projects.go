package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/thinkwright/novelflow/internal/conversation"
	"github.com/thinkwright/novelflow/internal/novel"
	"github.com/thinkwright/novelflow/internal/state"
	"gopkg.in/yaml.v3"
)

var (
	outputFormat string
	chatProject  string
	chatPhase    string
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List and inspect projects",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your projects",
	Args:  cobra.NoArgs,
	RunE:  runProjectsList,
}

var projectsShowCmd = &cobra.Command{
	Use:   "show [project-id]",
	Short: "Show one project with its collection sizes",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsShow,
}

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Send one message to the assistant and print the reply",
	Long: `Sends a message in a new conversation for the given project. The persona
follows --phase, which defaults to inspiration.

Example:
  novelflow chat --project 42 --phase character "Who is the antagonist?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

func init() {
	projectsCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "output format: text, json or yaml")
	projectsCmd.AddCommand(projectsListCmd, projectsShowCmd)

	chatCmd.Flags().StringVar(&chatProject, "project", "", "project id")
	chatCmd.Flags().StringVar(&chatPhase, "phase", string(novel.PhaseInspiration), "creation phase")
	_ = chatCmd.MarkFlagRequired("project")
}

type projectDetail struct {
	Project       novel.Project `json:"project" yaml:"project"`
	Inspirations  int           `json:"inspirations" yaml:"inspirations"`
	Characters    int           `json:"characters" yaml:"characters"`
	Conversations int           `json:"conversations" yaml:"conversations"`
}

func runProjectsList(cmd *cobra.Command, args []string) error {
	kv, err := openStorage()
	if err != nil {
		return err
	}
	defer kv.Close()

	ctx := cmd.Context()

	projects, err := newClient(kv).ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("listing projects: %w", err)
	}
	if outputFormat != "text" {
		return writeStructured(cmd.OutOrStdout(), projects)
	}
	if len(projects) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no projects")
		return nil
	}

	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		prog := novel.WordCountProgress(p.CurrentWordCount, p.TargetWordCount)
		rows = append(rows, []string{
			p.ID,
			novel.Truncate(p.Title, 40),
			string(p.Status),
			novel.FormatCount(prog.Current) + " / " + prog.Denominator(),
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "STATUS", "WORDS").
		Rows(rows...)
	fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return nil
}

func runProjectsShow(cmd *cobra.Command, args []string) error {
	kv, err := openStorage()
	if err != nil {
		return err
	}
	defer kv.Close()

	ctx := cmd.Context()

	client := newClient(kv)
	p, err := client.GetProject(ctx, args[0])
	if err != nil {
		return fmt.Errorf("loading project: %w", err)
	}
	data, err := client.LoadProjectData(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("loading project data: %w", err)
	}
	detail := projectDetail{
		Project:       p,
		Inspirations:  len(data.Inspirations),
		Characters:    len(data.Characters),
		Conversations: len(data.Conversations),
	}
	if outputFormat != "text" {
		return writeStructured(cmd.OutOrStdout(), detail)
	}

	w := cmd.OutOrStdout()
	prog := novel.WordCountProgress(p.CurrentWordCount, p.TargetWordCount)
	row := func(label, value string) {
		if value == "" {
			value = "not set"
		}
		fmt.Fprintf(w, "%-14s %s\n", label, value)
	}
	row("title", p.Title)
	row("id", p.ID)
	row("genre", p.Genre)
	row("status", string(p.Status))
	row("structure", string(p.StructureType))
	row("words", novel.FormatCount(prog.Current)+" / "+prog.Denominator())
	if prog.HasTarget {
		row("complete", strconv.Itoa(prog.Percent)+"%")
	}
	row("inspirations", strconv.Itoa(detail.Inspirations))
	row("characters", strconv.Itoa(detail.Characters))
	row("conversations", strconv.Itoa(detail.Conversations))
	return nil
}

func writeStructured(w io.Writer, v any) error {
	switch outputFormat {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", outputFormat)
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	phase := novel.Phase(chatPhase)
	if phase.Index() < 0 {
		return fmt.Errorf("unknown phase %q", chatPhase)
	}

	kv, err := openStorage()
	if err != nil {
		return err
	}
	defer kv.Close()

	ctx := cmd.Context()

	client := newClient(kv)
	p, err := client.GetProject(ctx, chatProject)
	if err != nil {
		return fmt.Errorf("loading project: %w", err)
	}

	// A one-shot send keeps its state in memory.
	st := state.NewStore(nil, state.WithLogger(logger))
	st.Dispatch(state.SetCurrentProject{Project: &p}, state.SetCurrentPhase{Phase: phase})

	sess := conversation.New(client, st,
		conversation.WithTypedEcho(cfg.EchoTypedMessage),
		conversation.WithLogger(logger))
	if err := sess.Send(ctx, strings.Join(args, " ")); err != nil {
		return err
	}

	msgs := sess.Messages()
	reply := msgs[len(msgs)-1]
	info := reply.Persona.Info()
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s %s\n\n%s\n", info.Emoji, info.Name, reply.Content)
	if found, ok := reply.StructuredData.Find(novel.KindSuggestedActions); ok {
		if sa, ok := found.(novel.SuggestedActionsPayload); ok && len(sa.Actions) > 0 {
			fmt.Fprintln(w, "\nSuggested:")
			for _, a := range sa.Actions {
				fmt.Fprintf(w, "  - %s\n", a.Label)
			}
		}
	}
	return nil
}
