package blogservice

import "github.com/microcosm-cc/bluemonday"

var (
	// postPolicy allows the markup an editor produces for a post body.
	postPolicy = bluemonday.UGCPolicy()

	// commentPolicy keeps inline formatting, paragraphs, lists and links.
	commentPolicy = newCommentPolicy()
)

func newCommentPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowStandardURLs()
	p.AllowAttrs("href").OnElements("a")
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)

	p.AllowElements("p", "br", "strong", "b", "em", "i", "u", "s", "blockquote", "code", "pre", "ul", "ol", "li")

	return p
}

// sanitizeHTML strips scripts, event handler attributes and unsafe URLs from a post body.
func sanitizeHTML(html string) string {
	return postPolicy.Sanitize(html)
}

func sanitizeComment(html string) string {
	return commentPolicy.Sanitize(html)
}
