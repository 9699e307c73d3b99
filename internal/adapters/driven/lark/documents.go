package lark

import (
	"context"
	"net/http"
	"net/url"

	"github.com/forlark/larkfetch/internal/core/domain"
	"github.com/forlark/larkfetch/internal/core/ports/driven"
)

// untitledDocument stands in when a document carries no title.
const untitledDocument = "Untitled Document"

type documentMetaResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Document struct {
			DocumentID string `json:"document_id"`
			Title      string `json:"title"`
		} `json:"document"`
	} `json:"data"`
}

// DocumentMeta fetches a document's metadata. Permission and
// existence failures come back as *domain.DocumentAccessError so
// callers can surface remediation guidance.
func (c *Client) DocumentMeta(ctx context.Context, region domain.Region, accessToken, documentID string) (*driven.DocumentMeta, error) {
	endpoint := c.apiBase(region) + "/open-apis/docx/v1/documents/" + url.PathEscape(documentID)

	var out documentMetaResponse
	if err := c.doJSON(ctx, c.bearerClient(ctx, accessToken), http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	if out.Code != 0 {
		return nil, &domain.DocumentAccessError{Code: out.Code, Msg: out.Msg}
	}

	title := out.Data.Document.Title
	if title == "" {
		title = untitledDocument
	}
	return &driven.DocumentMeta{
		ID:    out.Data.Document.DocumentID,
		Title: title,
	}, nil
}

type blockChildrenResponse struct {
	Code int              `json:"code"`
	Msg  string           `json:"msg"`
	Data domain.BlockChildrenPage `json:"data"`
}

// BlockChildren fetches one page of a block's children. An empty
// pageToken requests the first page.
func (c *Client) BlockChildren(ctx context.Context, region domain.Region, accessToken, documentID, blockID, pageToken string) (*domain.BlockChildrenPage, error) {
	endpoint := c.apiBase(region) + "/open-apis/docx/v1/documents/" + url.PathEscape(documentID) +
		"/blocks/" + url.PathEscape(blockID) + "/children"
	if pageToken != "" {
		endpoint += "?page_token=" + url.QueryEscape(pageToken)
	}

	var out blockChildrenResponse
	if err := c.doJSON(ctx, c.bearerClient(ctx, accessToken), http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	if out.Code != 0 {
		return nil, &domain.DocumentAccessError{Code: out.Code, Msg: out.Msg}
	}
	return &out.Data, nil
}
