// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package anilist

import "github.com/pdiddy/anilookup/pkg/types"

// AniList media JSON structures. Every nullable scalar decodes to its zero
// value; nullable objects are pointers.
type mediaNode struct {
	ID          int      `json:"id"`
	Type        string   `json:"type"`
	Format      string   `json:"format"`
	Status      string   `json:"status"`
	Description string   `json:"description"`
	SiteURL     string   `json:"siteUrl"`
	Synonyms    []string `json:"synonyms"`
	Title       *struct {
		Romaji  string `json:"romaji"`
		English string `json:"english"`
		Native  string `json:"native"`
	} `json:"title"`
	CoverImage *struct {
		ExtraLarge string `json:"extraLarge"`
		Large      string `json:"large"`
		Medium     string `json:"medium"`
	} `json:"coverImage"`
}

func (m *mediaNode) record() types.MediaRecord {
	r := types.MediaRecord{
		ID:          m.ID,
		Kind:        types.MediaKind(m.Type),
		Format:      m.Format,
		Status:      m.Status,
		Description: m.Description,
		SiteURL:     m.SiteURL,
	}
	if m.Title != nil {
		r.Title = types.Titles{Romaji: m.Title.Romaji, English: m.Title.English, Native: m.Title.Native}
	}
	if m.CoverImage != nil {
		switch {
		case m.CoverImage.Large != "":
			r.CoverImage = m.CoverImage.Large
		case m.CoverImage.Medium != "":
			r.CoverImage = m.CoverImage.Medium
		default:
			r.CoverImage = m.CoverImage.ExtraLarge
		}
	}
	if len(m.Synonyms) > 0 {
		r.Synonyms = append([]string(nil), m.Synonyms...)
	}
	return r
}

// PageInfo mirrors AniList's page metadata.
type PageInfo struct {
	Total       int  `json:"total"`
	CurrentPage int  `json:"currentPage"`
	LastPage    int  `json:"lastPage"`
	HasNextPage bool `json:"hasNextPage"`
	PerPage     int  `json:"perPage"`
}

func decodeError(op string, err error) error {
	return &UpstreamError{Op: op, Kind: KindDecode, Err: err}
}

// DecodeMedia reads a MediaByID response. It returns nil when the media is null.
func DecodeMedia(t Tree) (*types.MediaRecord, error) {
	var data struct {
		Media *mediaNode `json:"Media"`
	}
	if err := t.Decode(&data); err != nil {
		return nil, decodeError(MediaByID.Name, err)
	}
	if data.Media == nil {
		return nil, nil
	}
	r := data.Media.record()
	return &r, nil
}

// DecodePage reads a MediaSearch response. Null entries in the media list
// are skipped.
func DecodePage(t Tree) (PageInfo, []types.MediaRecord, error) {
	var data struct {
		Page *struct {
			PageInfo PageInfo     `json:"pageInfo"`
			Media    []*mediaNode `json:"media"`
		} `json:"Page"`
	}
	if err := t.Decode(&data); err != nil {
		return PageInfo{}, nil, decodeError(MediaSearch.Name, err)
	}
	if data.Page == nil {
		return PageInfo{}, nil, nil
	}
	records := make([]types.MediaRecord, 0, len(data.Page.Media))
	for _, m := range data.Page.Media {
		if m == nil {
			continue
		}
		records = append(records, m.record())
	}
	return data.Page.PageInfo, records, nil
}

// DecodeRecommendationIDs reads a RecommendationList response. found is
// false when the seed media itself is null.
func DecodeRecommendationIDs(t Tree) (ids []int, found bool, err error) {
	var data struct {
		Media *struct {
			Recommendations *struct {
				Nodes []*struct {
					ID int `json:"id"`
				} `json:"nodes"`
			} `json:"recommendations"`
		} `json:"Media"`
	}
	if err := t.Decode(&data); err != nil {
		return nil, false, decodeError(RecommendationList.Name, err)
	}
	if data.Media == nil {
		return nil, false, nil
	}
	if data.Media.Recommendations == nil {
		return nil, true, nil
	}
	for _, n := range data.Media.Recommendations.Nodes {
		if n != nil && n.ID > 0 {
			ids = append(ids, n.ID)
		}
	}
	return ids, true, nil
}

// DecodeRecommendation reads a RecommendationResolve response. It returns
// nil when the entry or its target media is null.
func DecodeRecommendation(t Tree) (*types.MediaRecord, error) {
	var data struct {
		Recommendation *struct {
			ID                  int        `json:"id"`
			MediaRecommendation *mediaNode `json:"mediaRecommendation"`
		} `json:"Recommendation"`
	}
	if err := t.Decode(&data); err != nil {
		return nil, decodeError(RecommendationResolve.Name, err)
	}
	if data.Recommendation == nil || data.Recommendation.MediaRecommendation == nil {
		return nil, nil
	}
	r := data.Recommendation.MediaRecommendation.record()
	return &r, nil
}
