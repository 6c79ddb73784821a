package types

import "encoding/json"

// File tree ------------------------------------------------------------------

const (
	NodeTypeFile   = "file"
	NodeTypeFolder = "folder"
)

// FileTreeNode is one entry in the hierarchical repository tree. Folders carry
// Children (ordered, folders first then lexicographic); files carry Size and
// Extension. Path is repo-relative with forward slashes and is the stable
// identifier shared with the dependency graph.
type FileTreeNode struct {
	Name      string          `json:"name"`
	Path      string          `json:"path"`
	Type      string          `json:"type"`
	Extension string          `json:"extension,omitempty"`
	Size      int64           `json:"size,omitempty"`
	Children  []*FileTreeNode `json:"children,omitempty"`
}

// Dependency graph -----------------------------------------------------------

type GraphNode struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Path  string `json:"path"`
	Type  string `json:"type"`
	Group string `json:"group"`
}

// GraphEdge is a directed "source imports target" relationship. One edge is
// emitted per import statement, so the same pair may appear more than once.
type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Import string `json:"import"`
}

type DependencyGraph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`

	// Derived from Nodes/Edges at build time; never stored independently.
	ConnectionCounts map[string]int `json:"connection_counts"`
	ByType           map[string]int `json:"by_type"`
}

// Narrative / analysis -------------------------------------------------------

// Narrative is the model-produced part of an analysis. Every field is
// optional: the model's output is advisory and missing fields default to
// their zero values.
type Narrative struct {
	Modules                  map[string]string `json:"modules"`
	Architecture             string            `json:"architecture"`
	TechnicalDebt            string            `json:"technical_debt"`
	TechnicalDebtSuggestions string            `json:"technical_debt_suggestions"`
	OnboardingGuide          string            `json:"onboarding_guide"`
}

// AnalysisResult is the full response for one analyze request.
type AnalysisResult struct {
	Modules                  map[string]string `json:"modules"`
	Architecture             string            `json:"architecture"`
	TechnicalDebt            string            `json:"technical_debt"`
	TechnicalDebtSuggestions string            `json:"technical_debt_suggestions"`
	OnboardingGuide          string            `json:"onboarding_guide"`
	FileTree                 *FileTreeNode     `json:"file_tree"`
	Dependencies             *DependencyGraph  `json:"dependencies"`
	AIDetection              json.RawMessage   `json:"ai_detection"`
}

// Chat -----------------------------------------------------------------------

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
