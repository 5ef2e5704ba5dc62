// Package server exposes a microscope.Microscope over HTTP and provides a
// matching Client.
//
// Every read is GET /v1/<endpoint> and every write is PUT /v1/<endpoint>
// with a JSON body, e.g. PUT /v1/defocus with body 1e-6. Per device
// endpoints take the quoted device name as a second path segment:
//
//	GET /v1/camera_param/BM-Ceta
//	PUT /v1/camera_param/BM-Ceta?ignore_errors=true   {"binning": 2}
//	PUT /v1/stage_position?method=GO&speed=0.5          {"x": 1e-6}
//	GET /v1/acquire?detectors=BM-Ceta&detectors=HAADF
//
// Successful writes answer 204. Unknown endpoints and devices answer 404,
// any other failure 500 with an ErrorBody. Images from acquire are sent as
// PackedArray values, or as one Arrow IPC record when the request accepts
// application/vnd.apache.arrow.stream. Responses larger than
// Config.GzipMinSize are gzip compressed for clients that accept it.
package server
