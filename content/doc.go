// Package content loads game data files and runs the action strings they
// carry.
//
// A content file is YAML with two lists of entities:
//
//	cards:
//	  - name: fireball
//	    cost: 3
//	    tags: [spell]
//	    actions:
//	      play: damage (* 2 $cost)
//	buildings:
//	  - name: mill
//	    cost: 5
//	    actions:
//	      turn: gain 'grain 1
//
// [Check] parses every action and reports each malformed one. [Run]
// evaluates one action with the entity's fields bound as variables.
package content
