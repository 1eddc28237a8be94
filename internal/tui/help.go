package tui

const helpMarkdown = `# Keys

## Canvas

| Key | Action |
| --- | --- |
| arrows | move selection across the map |
| shift+arrows | pan the viewport |
| tab | add a child of the active node |
| enter | add a sibling (child when on the root) |
| r / F2 | rename the active node |
| d / delete | delete the selected subtrees |
| space | collapse / expand the active node |
| m | toggle multi-select while navigating |
| H J K L | nudge the selected subtrees |
| s | cycle node style (rect, underline, none) |
| l | cycle layout mode (bidirectional, ltr, rtl) |
| c | cycle connector style (curved, straight) |
| u / U | undo / redo |
| o | toggle the outline pane |
| esc | back to the map list |
| q | save and quit |

## Map list

| Key | Action |
| --- | --- |
| enter | open map |
| n | new map |
| R | rename map |
| D | delete map |
| / | filter |

Edits autosave after a short quiet period; the outline pane rebuilds the tree
once you stop typing.
`
