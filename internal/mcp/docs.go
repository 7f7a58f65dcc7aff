package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `tenderindex keeps an index of procurement projects found as directories on a file share.

Model:
- Project: id (e.g. "2022-06001"), name and status (TENDER, ACTIVE, ARCHIVED, CLOSED).
- Tender: a directory holding tender documents ("Ausschreibung"), keyed by project, version, lot and company.
- Offer: a directory holding offer documents ("Angebot"), same key.

Workflow:
1) Browse: list_projects (ACTIVE by default, status "all" for everything), project_status_counts.
2) Inspect: get_project returns the project with all tender and offer directories.
3) Maintain: update_project_status moves a project through its lifecycle.
4) Refresh: scan_projects re-reads the project root and records new directories.

Docs:
- tenderindex://docs/naming (directory naming convention)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "tenderindex://docs/naming",
		Name:        "docs_naming",
		Title:       "Project directory naming",
		Description: "How directory names are decoded into projects, tenders and offers.",
		Content: `# Project directory naming

Example: ` + "`2022_06001_AAB_v2_l10_f-ACME_AS`" + `

- Everything before the first letter is the project id. Trailing underscores are
  dropped and the remaining underscores become dashes: ` + "`2022-06001`" + `.
- The rest is split on underscores. The first token is the project name (` + "`AAB`" + `).
- Each further token is a suffix:
  - ` + "`AS`" + `: tender documents, ` + "`AN`" + `: offer documents (default: offer)
  - ` + "`v<version>`" + ` (default 1)
  - ` + "`l<lot>`" + ` (default 100, meaning all lots)
  - ` + "`f-<company>`" + ` (default WiWo)
  - anything else is ignored.
- Names without a letter, without an id, or without at least one suffix are skipped.

Rescanning is safe: known directories only have their path refreshed, and the
status of an existing project is never reset.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
