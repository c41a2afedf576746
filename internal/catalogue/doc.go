// Package catalogue validates and loads clip catalogues.
//
// A catalogue is a JSON array of clip records produced by an external scanner.
// Every record must carry the facets pairing depends on (scenario, variant,
// agent, route_id, clip_idx) plus the rel_path locator. Records that do not
// conform are rejected as a whole with a SchemaError rather than dropped, so a
// malformed catalogue can never silently shrink the pair list.
package catalogue
