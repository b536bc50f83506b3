// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package anilist

// mediaFields is the selection every media-returning shape uses, so every
// record carries the fields the renderer needs.
const mediaFields = `
fragment mediaFields on Media {
  id
  type
  format
  status
  description(asHtml: false)
  siteUrl
  synonyms
  title {
    romaji
    english
    native
  }
  coverImage {
    extraLarge
    large
    medium
  }
}`

// MaxPerPage is the largest page AniList serves.
const MaxPerPage = 50

var (
	// MediaByID resolves one media by id.
	MediaByID = MustShape("MediaByID", `
query MediaByID($id: Int!, $type: MediaType) {
  Media(id: $id, type: $type) {
    ...mediaFields
  }
}`+mediaFields)

	// MediaSearch is a paged title search.
	MediaSearch = MustShape("MediaSearch", `
query MediaSearch($search: String!, $page: Int, $perPage: Int, $type: MediaType) {
  Page(page: $page, perPage: $perPage) {
    pageInfo {
      total
      currentPage
      lastPage
      hasNextPage
      perPage
    }
    media(search: $search, type: $type, sort: SEARCH_MATCH) {
      ...mediaFields
    }
  }
}`+mediaFields)

	// RecommendationList lists the recommendation entry ids of one media.
	// Entry ids identify Recommendation objects, not media.
	RecommendationList = MustShape("RecommendationList", `
query RecommendationList($id: Int!, $page: Int, $perPage: Int) {
  Media(id: $id) {
    id
    recommendations(page: $page, perPage: $perPage) {
      nodes {
        id
      }
    }
  }
}`)

	// RecommendationResolve resolves one recommendation entry to the media
	// it points at.
	RecommendationResolve = MustShape("RecommendationResolve", `
query RecommendationResolve($id: Int!) {
  Recommendation(id: $id) {
    id
    mediaRecommendation {
      ...mediaFields
    }
  }
}`+mediaFields)
)
