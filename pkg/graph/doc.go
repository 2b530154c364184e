// Package graph provides the file and wire formats for skill trees.
//
// Two formats live here:
//
//   - Records: the input node records ([tree.Record]) read from JSON or YAML
//     files. Both a bare list and an object with a "records" key are accepted.
//   - [Layout]: a positioned tree as produced by [tree.Engine], used for JSON
//     files, API responses, caching and session storage.
//
// # Records
//
//	records:
//	  - id: strike
//	    category: melee
//	  - id: cleave
//	    category: melee
//	    requirements: [{id: strike}]
//
// Use [ReadRecordsFile] to load records by file extension (.json, .yaml, .yml)
// and [WriteRecordsFile] to write them back.
//
// # Layouts
//
// A Layout carries node centers, the bounding box and the tagged edge set:
//
//	{
//	  "viz_type": "tree",
//	  "strategy": "columns",
//	  "bounds": {"minX": -40, "maxX": 40, "minY": -40, "maxY": 180},
//	  "nodes": [{"id": "strike", "x": 0, "y": 0}, ...],
//	  "edges": [{"from": "strike", "to": "cleave", "kind": "structural"}]
//	}
//
// [FromResult] converts a layout run into a Layout; [Layout.Nodes] can be
// turned back into linked [tree.Node] values with [Layout.TreeNodes] so that
// a cached layout can be drawn without running the engine again.
package graph
