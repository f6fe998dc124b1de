// Package config loads the heurconf settings file.
//
// Settings are written in HCL. Every block is optional and unset values
// keep their defaults:
//
//	discovery {
//	  modules = ["construct", "improve", "grasp"]
//	}
//
//	alias "Classic" {
//	  target = "GRASP"
//	}
//
//	space {
//	  root_capability = "Algorithm"
//	  max_depth       = 4
//	  max_repeat      = 1
//	  workers         = 4
//	  cache_size      = 16
//	}
//
//	logging {
//	  level  = "info"
//	  format = "text"
//	}
//
// Expressions may read environment variables through the env object, e.g.
// max_depth = env.HEURCONF_MAX_DEPTH, and call a few functions (upper,
// lower, min, max, coalesce).
package config
