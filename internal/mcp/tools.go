package mcp

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wiwo/tenderindex/internal/domain/project"
)

func registerTools(server *sdkmcp.Server, services Services, root string) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List projects filtered by status (ACTIVE unless a status or \"all\" is given)",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListProjectsParams) (*sdkmcp.CallToolResult, ListProjectsResponse, error) {
		status, err := project.ParseStatusFilter(in.Status)
		if err != nil {
			return nil, ListProjectsResponse{}, MapError(err)
		}
		projects, err := services.Projects.List(ctx, status)
		if err != nil {
			return nil, ListProjectsResponse{}, MapError(err)
		}
		resp := ListProjectsResponse{Projects: make([]ProjectResponse, 0, len(projects))}
		for _, p := range projects {
			resp.Projects = append(resp.Projects, toProjectResponse(p))
		}
		return nil, resp, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get a project with all of its tender and offer directories",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetProjectParams) (*sdkmcp.CallToolResult, GetProjectResponse, error) {
		view, err := services.Projects.Get(ctx, in.ID)
		if err != nil {
			return nil, GetProjectResponse{}, MapError(err)
		}
		if view == nil {
			return nil, GetProjectResponse{}, MapError(fmt.Errorf("%s: %w", in.ID, project.ErrProjectNotFound))
		}
		return nil, GetProjectResponse{
			Project: toProjectResponse(view.Project),
			Tenders: toTenderResponses(view.Tenders),
			Offers:  toOfferResponses(view.Offers),
		}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_project_status",
		Description: "Set the status of a project. Unknown project ids are ignored.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateProjectStatusParams) (*sdkmcp.CallToolResult, UpdateProjectStatusResponse, error) {
		status, err := project.ParseStatus(in.Status)
		if err != nil {
			return nil, UpdateProjectStatusResponse{}, MapError(err)
		}
		if err := services.Projects.UpdateStatus(ctx, in.ID, status); err != nil {
			return nil, UpdateProjectStatusResponse{}, MapError(err)
		}
		return nil, UpdateProjectStatusResponse{ID: in.ID, Status: string(status)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_tenders",
		Description: "List tender directories, optionally for one project",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListDocumentsParams) (*sdkmcp.CallToolResult, ListTendersResponse, error) {
		tenders, err := services.Projects.ListTenders(ctx, in.ProjectID)
		if err != nil {
			return nil, ListTendersResponse{}, MapError(err)
		}
		return nil, ListTendersResponse{Tenders: toTenderResponses(tenders)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_offers",
		Description: "List offer directories, optionally for one project",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListDocumentsParams) (*sdkmcp.CallToolResult, ListOffersResponse, error) {
		offers, err := services.Projects.ListOffers(ctx, in.ProjectID)
		if err != nil {
			return nil, ListOffersResponse{}, MapError(err)
		}
		return nil, ListOffersResponse{Offers: toOfferResponses(offers)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "project_status_counts",
		Description: "Count projects per status",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, StatusCountsResponse, error) {
		counts, err := services.Projects.CountByStatus(ctx)
		if err != nil {
			return nil, StatusCountsResponse{}, MapError(err)
		}
		resp := StatusCountsResponse{Counts: make([]StatusCountResponse, 0, len(project.Statuses))}
		for _, st := range project.Statuses {
			resp.Counts = append(resp.Counts, StatusCountResponse{Status: string(st), Count: counts[st]})
			resp.Total += counts[st]
		}
		return nil, resp, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "scan_projects",
		Description: "Scan the project root and record every project directory found",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, ScanProjectsResponse, error) {
		report, err := services.Scanner.ScanAndPersist(ctx, root)
		if err != nil {
			return nil, ScanProjectsResponse{}, err
		}
		return nil, toScanResponse(report), nil
	})
}
