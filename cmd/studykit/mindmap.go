package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/studykit/pkg/core"
	"github.com/aretw0/studykit/pkg/session"
)

var (
	mapFrom  string
	mapTopic string
	mapYAML  bool
)

var mindmapCmd = &cobra.Command{
	Use:     "mindmap",
	Aliases: []string{"map"},
	Short:   "Generate, export and explore concept maps",
}

var mindmapGenerateCmd = &cobra.Command{
	Use:   "generate [name]",
	Short: "Generate a mind map about a notes file",
	Long:  `Generate a mind map rooted at --topic, which defaults to the map name.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		source, err := readSource(mapFrom)
		if err != nil {
			fatal("Failed to read notes", err)
		}
		topic := mapTopic
		if topic == "" {
			topic = args[0]
		}

		ws := openWorkspace()
		key := core.ArtifactKey(cfg.Project, core.KindMindMap, args[0])
		graph, report, err := ws.GenerateMindMap(cmd.Context(), key, source, topic)
		if err != nil {
			fatal("Failed to generate mind map", err)
		}
		printSaved(cmd.OutOrStdout(), key, len(graph.Nodes), "nodes", report)
	},
}

var mindmapShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Print a stored mind map as JSON or YAML",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ws := openWorkspace()
		graph, err := ws.LoadMindMap(cmd.Context(), core.ArtifactKey(cfg.Project, core.KindMindMap, args[0]))
		if err != nil {
			fatal("Failed to load mind map", err)
		}
		if err := writeGraph(cmd.OutOrStdout(), graph, mapYAML); err != nil {
			fatal("Error encoding mind map", err)
		}
	},
}

var mindmapExploreCmd = &cobra.Command{
	Use:   "explore [name]",
	Short: "Walk a stored mind map from its root",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ws := openWorkspace()
		nav, err := ws.OpenMindMap(cmd.Context(), core.ArtifactKey(cfg.Project, core.KindMindMap, args[0]), mapTopic)
		if err != nil {
			fatal("Failed to open mind map", err)
		}
		exploreMap(nav, newPrompter(cmd.InOrStdin(), cmd.OutOrStdout()))
	},
}

// yamlGraph gives the exported YAML the same field names as the JSON file.
type yamlGraph struct {
	Nodes []yamlNode `yaml:"nodes"`
	Edges []yamlEdge `yaml:"edges"`
}

type yamlNode struct {
	ID          string `yaml:"id"`
	Label       string `yaml:"label"`
	Description string `yaml:"description,omitempty"`
}

type yamlEdge struct {
	Source   string `yaml:"source"`
	Target   string `yaml:"target"`
	Relation string `yaml:"relation"`
}

func writeGraph(w io.Writer, graph *core.Graph, asYAML bool) error {
	if !asYAML {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(graph)
	}

	out := yamlGraph{Nodes: []yamlNode{}, Edges: []yamlEdge{}}
	for _, n := range graph.Nodes {
		out.Nodes = append(out.Nodes, yamlNode{ID: n.ID, Label: n.Label, Description: n.Description})
	}
	for _, e := range graph.Edges {
		out.Edges = append(out.Edges, yamlEdge{Source: e.Source, Target: e.Target, Relation: e.Relation})
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(out); err != nil {
		return err
	}
	return encoder.Close()
}

// exploreMap shows the focused node and its neighbours until the user quits.
func exploreMap(nav *session.MindMap, p *prompter) {
	for {
		focus := nav.Focus()
		sub := nav.VisibleSubgraph()
		node, _ := sub.Node(focus)
		fmt.Fprintf(p.out, "\n%s\n  %s\n", node.Label, nav.Describe(focus))

		neighbours := sub.Adjacency()[focus]
		for i, id := range neighbours {
			n, _ := sub.Node(id)
			fmt.Fprintf(p.out, "  %d) %s\n", i+1, n.Label)
		}

		answer, ok := p.ask("Number to open, [r]oot, [q]uit: ")
		if !ok || answer == "q" {
			return
		}
		if answer == "r" {
			nav.ResetToRoot()
			continue
		}
		i, err := strconv.Atoi(answer)
		if err != nil || i < 1 || i > len(neighbours) {
			fmt.Fprintln(p.out, "Unknown choice.")
			continue
		}
		if err := nav.Select(neighbours[i-1]); err != nil {
			fmt.Fprintln(p.out, err)
		}
	}
}

func init() {
	rootCmd.AddCommand(mindmapCmd)
	mindmapCmd.AddCommand(mindmapGenerateCmd, mindmapShowCmd, mindmapExploreCmd)

	mindmapGenerateCmd.Flags().StringVarP(&mapFrom, "from", "f", "", "Notes file, or - for stdin")
	for _, c := range []*cobra.Command{mindmapGenerateCmd, mindmapExploreCmd} {
		c.Flags().StringVarP(&mapTopic, "topic", "t", "", "Root topic (default: the map name)")
	}
	mindmapShowCmd.Flags().BoolVar(&mapYAML, "yaml", false, "Output in YAML format")
}
