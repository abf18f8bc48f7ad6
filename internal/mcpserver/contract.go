package mcpserver

// RoutesContract describes the invocation grammar for MCP clients.
const RoutesContract = `# Sonar Invocation Grammar

A request is a route path plus a query string. Multi-valued parameters keep
their first value.

| Path | Parameters | Result |
|------|------------|--------|
| / | none | root menu |
| / | action=call, call=<api path or next_href> | mapped collection |
| / | action=settings | settings request, no listing |
| /charts/ | none | charts menu |
| /charts/ | action=trending or top, genre (default soundcloud:genres:all-music) | chart |
| /discover/ | selection (optional) | selections, or one selection's playlists |
| /play/ | media_url, or track_id (alias audio_id), or playlist_id, or url | resolved stream |
| /search/ | none | new search entry and history |
| /search/ | action=new | prompts; pass the text as input |
| /search/ | query, optional action=people, albums or playlists | results |
| /search/ | action=remove with query, or action=clear | history change and refresh |
| /search/query/ | q | results (legacy) |
| /user/ | id, call | user menu and the user's tracks |
| /settings/cache/clear/ | none | wipes the response cache |

Listing results carry items whose url can be fed back: strip the plugin
base (plugin://<addon id>) and split the rest into path and query.
`
