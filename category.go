package lattice

import "fmt"

// Category groups nodes for coloring and cluster layout.
type Category uint8

const (
	CategoryModel Category = iota
	CategoryData
	CategoryAgent
	CategoryInfra
	CategoryInterface

	categoryCount
)

// CategoryInfo is the display data resolved for a category.
type CategoryInfo struct {
	Label string
	Color Color
}

var categoryTable = [categoryCount]CategoryInfo{
	CategoryModel:     {Label: "Models", Color: hexColor(0x8b5cf6)},
	CategoryData:      {Label: "Data", Color: hexColor(0x06b6d4)},
	CategoryAgent:     {Label: "Agents", Color: hexColor(0xf59e0b)},
	CategoryInfra:     {Label: "Infrastructure", Color: hexColor(0x10b981)},
	CategoryInterface: {Label: "Interfaces", Color: hexColor(0xec4899)},
}

// Categories returns every category in display order.
func Categories() []Category {
	out := make([]Category, categoryCount)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

// Info returns the label and color for c. Unknown values fall back to
// CategoryModel.
func (c Category) Info() CategoryInfo {
	if c >= categoryCount {
		return categoryTable[CategoryModel]
	}
	return categoryTable[c]
}

// Color returns the category's display color.
func (c Category) Color() Color { return c.Info().Color }

func (c Category) String() string {
	if c >= categoryCount {
		return fmt.Sprintf("Category(%d)", uint8(c))
	}
	return categoryTable[c].Label
}

// NodeLabel is one entry of the static label list.
type NodeLabel struct {
	Text     string
	Category Category
}

// DefaultLabels is the label list nodes are named from. Node i takes entry
// i % len(DefaultLabels).
var DefaultLabels = []NodeLabel{
	{"Transformer", CategoryModel},
	{"Embeddings", CategoryModel},
	{"Fine-tune", CategoryModel},
	{"Tokenizer", CategoryModel},
	{"Attention", CategoryModel},
	{"Diffusion", CategoryModel},
	{"Reranker", CategoryModel},
	{"Vector Store", CategoryData},
	{"Data Lake", CategoryData},
	{"ETL", CategoryData},
	{"Feature Store", CategoryData},
	{"Knowledge Graph", CategoryData},
	{"Chunking", CategoryData},
	{"Labeling", CategoryData},
	{"Planner", CategoryAgent},
	{"Tool Use", CategoryAgent},
	{"Memory", CategoryAgent},
	{"Reflection", CategoryAgent},
	{"Router", CategoryAgent},
	{"Orchestrator", CategoryAgent},
	{"GPU Cluster", CategoryInfra},
	{"Inference", CategoryInfra},
	{"Cache", CategoryInfra},
	{"Queue", CategoryInfra},
	{"Monitoring", CategoryInfra},
	{"Gateway", CategoryInfra},
	{"Chat UI", CategoryInterface},
	{"API", CategoryInterface},
	{"SDK", CategoryInterface},
	{"Webhooks", CategoryInterface},
	{"Voice", CategoryInterface},
	{"Dashboard", CategoryInterface},
}
