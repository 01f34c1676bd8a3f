package anilist

const mediaByIDQuery = `
query ($id: Int) {
  Media(id: $id, type: ANIME) {
    id
    title {
      romaji
      english
      native
    }
    coverImage {
      extraLarge
      large
      color
    }
    bannerImage
    description
    episodes
    duration
    status
    format
    season
    seasonYear
    averageScore
    popularity
    genres
    studios {
      nodes {
        name
      }
    }
    nextAiringEpisode {
      episode
      airingAt
    }
  }
}
`

const trendingQuery = `
query {
  Page(page: 1, perPage: 10) {
    media(type: ANIME, sort: TRENDING_DESC, status: RELEASING) {
      id
      title {
        romaji
        english
      }
      coverImage {
        large
        extraLarge
      }
      bannerImage
      description
      episodes
      averageScore
      seasonYear
      format
      duration
      genres
      status
    }
  }
}
`

const searchQuery = `
query ($search: String) {
  Media(search: $search, type: ANIME) {
    id
    title {
      romaji
      english
    }
    coverImage {
      large
    }
    description
    episodes
    averageScore
  }
}
`
