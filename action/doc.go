// Package action derives renderer-independent menu models from exclusive
// and selective controllers. A rendering layer calls Items each time it
// shows the menu; the returned actions trigger controller operations when
// run.
package action
