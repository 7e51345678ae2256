// Package config provides configuration management for kuctl.
//
// kuctl talks to a Kobo-UNCaGED agent over HTTP. The agent's address, the
// paths of its endpoints and the client-side behavior (push reconnects,
// failure reporting, logging) are read from layered YAML files. Later
// sources override earlier ones.
//
// # Configuration Layers
//
//  1. Default Configuration (embedded in binary)
//     - Matches the paths served by the agent's built-in web server
//
//  2. User Configuration (~/.config/kuctl/config.yaml)
//     - Personal settings, typically the agent URL of your own device
//
//  3. Project Configuration (./.kuctl/config.yaml)
//     - Settings for the current directory, handy for test rigs
//
//  4. Command line flags
//     - Applied by the cmd package after loading
//
// # Configuration Structure
//
//	agent:
//	  url: "http://192.168.1.20:8181"
//	  screenDPI: 300
//	  requestTimeout: 30s
//	  paths:
//	    config: /config
//	    auth: /calibreauth
//	    instances: /calibreinstance
//	    libraryInfo: /libinfo
//	    exit: /exit
//	    disconnect: /ucexit
//	    push: /messages
//
//	push:
//	  reconnectInterval: 3s
//	  dedupeWindow: 1m
//
//	ui:
//	  failurePolicy: silent   # or "notify"
//	  statusTimeout: 5s
//	  logLevel: info
//
//	update:
//	  repository: kuctl/kuctl
//
// # Agent Section
//
// The agent section replaces the values the on-device page received from its
// host: the screen DPI and the endpoint paths. They are read once at startup
// and stay fixed for the lifetime of the process. An empty path in an
// overlay keeps the value from the layer below.
//
// # Failure Policy
//
// Every agent call that does not return its expected status code is logged.
// With "silent" nothing else happens and the visible panel stays as it is.
// With "notify" the status bar additionally shows which action failed.
// Neither policy advances the panel.
package config
