package catalog

import (
	"context"
	"testing"

	"github.com/aidatafoundation/contentd/internal/models"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := New(nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNew_EmbeddedCatalogLoads(t *testing.T) {
	c := testCatalog(t)
	tools, err := c.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tools) == 0 {
		t.Fatal("embedded catalog is empty")
	}
	for _, tool := range tools {
		if tool.Title == "" || tool.Tag == "" {
			t.Errorf("tool missing title or tag: %+v", tool.Tool)
		}
	}
}

func TestList_SearchTitleAndDescription(t *testing.T) {
	c := testCatalog(t)
	tools, _ := c.List(context.Background(), Filter{Query: "langchain"})
	if len(tools) != 1 || tools[0].Title != "LangChain" {
		t.Errorf("tools = %+v", tools)
	}

	tools, _ = c.List(context.Background(), Filter{Query: "similarity search"})
	if len(tools) == 0 {
		t.Error("description match found nothing")
	}
	for _, tool := range tools {
		if tool.Tag != "Vector Database" {
			t.Errorf("unexpected match: %+v", tool.Tool)
		}
	}
}

func TestList_GroupBuckets(t *testing.T) {
	c := testCatalog(t)

	llm, _ := c.List(context.Background(), Filter{Group: GroupLLM})
	for _, tool := range llm {
		if !inGroup(tool.Tag, GroupLLM) {
			t.Errorf("tool %q with tag %q leaked into LLM group", tool.Title, tool.Tag)
		}
	}
	if len(llm) == 0 {
		t.Error("LLM group is empty")
	}

	mcp, _ := c.List(context.Background(), Filter{Group: GroupMCP})
	if len(mcp) == 0 {
		t.Error("MCP group is empty")
	}
	for _, tool := range mcp {
		if tool.Tag != "MCP Server" && tool.Tag != "MCP SDK" {
			t.Errorf("unexpected MCP tool: %+v", tool.Tool)
		}
	}
}

func TestList_SortAZandZA(t *testing.T) {
	c := testCatalog(t)
	az, _ := c.List(context.Background(), Filter{Sort: "az"})
	for i := 1; i < len(az); i++ {
		if az[i-1].Title > az[i].Title {
			t.Fatalf("az order broken at %d: %q > %q", i, az[i-1].Title, az[i].Title)
		}
	}
	za, _ := c.List(context.Background(), Filter{Sort: "za"})
	if za[0].Title != az[len(az)-1].Title {
		t.Errorf("za[0] = %q, want %q", za[0].Title, az[len(az)-1].Title)
	}
}

func TestSortTools_UnknownStarsLast(t *testing.T) {
	tools := []DecoratedTool{
		{Tool: models.Tool{Title: "unknown"}, Stars: models.Unknown},
		{Tool: models.Tool{Title: "small"}, Stars: models.StarCount{Count: 5, Known: true}},
		{Tool: models.Tool{Title: "big"}, Stars: models.StarCount{Count: 500, Known: true}},
	}
	sortTools(tools, "stars")
	if tools[0].Title != "big" || tools[1].Title != "small" || tools[2].Title != "unknown" {
		t.Errorf("order = [%s %s %s]", tools[0].Title, tools[1].Title, tools[2].Title)
	}
}

func TestTags_DistinctAndSorted(t *testing.T) {
	c := testCatalog(t)
	tags := c.Tags(GroupAll)
	if len(tags) == 0 {
		t.Fatal("no tags")
	}
	seen := make(map[string]struct{})
	for i, tag := range tags {
		if _, dup := seen[tag]; dup {
			t.Errorf("duplicate tag %q", tag)
		}
		seen[tag] = struct{}{}
		if i > 0 && tags[i-1] > tag {
			t.Errorf("tags unsorted at %d", i)
		}
	}
}

func TestFormatStarCount(t *testing.T) {
	if got := FormatStarCount(models.StarCount{Count: 999, Known: true}); got != "999" {
		t.Errorf("999 = %q", got)
	}
	if got := FormatStarCount(models.StarCount{Count: 1234, Known: true}); got != "1.2k" {
		t.Errorf("1234 = %q", got)
	}
	if got := FormatStarCount(models.Unknown); got != "n/a" {
		t.Errorf("unknown = %q", got)
	}
}
