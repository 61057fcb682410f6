// Package fixtures holds the sample draft used by local setups and demos.
package fixtures

import (
	"context"
	"fmt"

	"github.com/gogotex/gogotex/backend/go-editor/internal/document"
	"github.com/gogotex/gogotex/backend/go-editor/internal/document/service"
	"github.com/gogotex/gogotex/backend/go-editor/pkg/logger"
)

// PendingOwner never receives a sample draft, so loading it exercises the empty path.
const PendingOwner = "pending"

// DefaultOwner is the owner seeded by the editor when it runs without a remote service.
const DefaultOwner = "agent-1"

const SampleTitle = "The Future of AI Agents in Content Creation"

const SampleBody = `<h2>Introduction</h2>
<p>Artificial intelligence agents are rapidly transforming the landscape of content creation. From drafting initial outlines to generating full articles, these sophisticated tools are becoming indispensable for marketers, writers, and businesses alike.</p>

<h2>How AI Agents Work</h2>
<p>AI agents leverage advanced natural language processing (NLP) and machine learning models to understand prompts, research topics, and synthesize information into coherent content. They can adapt to various writing styles and tones, making them versatile tools for diverse content needs.</p>

<h2>Benefits of Using AI Agents</h2>
<ul>
  <li>Increased efficiency and speed in content production.</li>
  <li>Enhanced creativity and idea generation.</li>
  <li>Improved consistency in brand voice and messaging.</li>
  <li>Cost-effectiveness for large-scale content projects.</li>
</ul>

<h2>Challenges and Considerations</h2>
<p>Despite their advantages, AI agents also present challenges. Ensuring factual accuracy, maintaining originality, and avoiding biases are crucial. Human oversight remains essential to refine AI-generated content and ensure it aligns with strategic goals.</p>

<h2>The Road Ahead</h2>
<p>As AI technology continues to evolve, we can expect even more advanced capabilities from AI agents. Their integration into content workflows will likely deepen, leading to new possibilities and a redefined relationship between human creativity and artificial intelligence.</p>
`

// Seed stores the sample draft for owner unless the owner already has a draft.
// It returns the owner's draft, or nil for PendingOwner and empty owners.
func Seed(ctx context.Context, svc service.Service, owner string) (*document.Document, error) {
	if owner == "" || owner == PendingOwner {
		return nil, nil
	}
	existing, err := svc.FetchDraft(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", owner, err)
	}
	if existing != nil {
		logger.Debugf("owner %q already has draft %s", owner, existing.ID)
		return existing, nil
	}
	d, err := svc.Save(ctx, document.SaveInput{
		OwnerID: owner,
		Title:   SampleTitle,
		Body:    SampleBody,
		Status:  document.StatusDraft,
	})
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", owner, err)
	}
	logger.Infof("seeded sample draft %s for owner %q", d.ID, owner)
	return d, nil
}
