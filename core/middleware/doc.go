// Package middleware groups the fiber middleware mounted in front of the
// validation routes.
//
//   - auth: API key check. Disabled when server.api_key is empty; health
//     probes are listed in Config.Skip.
//   - rayid: assigns each request an X-Ray-ID used by logger.WithRayID.
//
// rayid is registered first so auth failures are logged with their RayID.
package middleware
