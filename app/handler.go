package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sushihentaime/cleanblog/internal/blogservice"
	"github.com/sushihentaime/cleanblog/internal/common"
	"github.com/sushihentaime/cleanblog/internal/mailservice"
	"github.com/sushihentaime/cleanblog/internal/userservice"
)

// Notices shown through the flash cookie.
const (
	flashAlreadyRegistered = "You've already signed up with that email, log in instead!"
	flashUnknownEmail      = "That email does not exist, please try again."
	flashWrongPassword     = "Password incorrect, please try again."
	flashLoginToComment    = "You need to login or register to comment."
	flashMessageSent       = "Message sent successfully!!"
	flashMessageFailed     = "Sorry, your message could not be sent. Please try again later."
)

var (
	userFormFields    = []string{"name", "email"}
	loginFormFields   = []string{"email"}
	postFormFields    = []string{"title", "subtitle", "author", "img_url", "body"}
	contactFormFields = []string{"name", "email", "phone", "message"}
)

func (app *application) homeHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := app.blogService.GetPosts(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	data := app.newTemplateData(w, r)
	data.Posts = posts

	app.renderPage(w, r, http.StatusOK, "index.tmpl", data)
}

func (app *application) aboutHandler(w http.ResponseWriter, r *http.Request) {
	app.renderPage(w, r, http.StatusOK, "about.tmpl", app.newTemplateData(w, r))
}

func (app *application) registerFormHandler(w http.ResponseWriter, r *http.Request) {
	app.renderPage(w, r, http.StatusOK, "register.tmpl", app.newTemplateData(w, r))
}

func (app *application) registerHandler(w http.ResponseWriter, r *http.Request) {
	err := app.parseForm(w, r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user, err := app.userService.CreateUser(r.Context(), r.PostForm.Get("name"), r.PostForm.Get("email"), r.PostForm.Get("password"))
	if err != nil {
		var validationErr common.ValidationError
		switch {
		case errors.Is(err, userservice.ErrDuplicateEmail):
			app.setFlash(w, flashAlreadyRegistered)
			app.redirect(w, r, "/login")
		case errors.As(err, &validationErr):
			data := app.newTemplateData(w, r)
			data.Form = formValues(r, userFormFields...)
			data.Errors = validationErr.Errors
			app.renderPage(w, r, http.StatusUnprocessableEntity, "register.tmpl", data)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.logger.Info("user registered", slog.Int("user_id", user.ID))

	app.login(w, r, user)
}

func (app *application) loginFormHandler(w http.ResponseWriter, r *http.Request) {
	app.renderPage(w, r, http.StatusOK, "login.tmpl", app.newTemplateData(w, r))
}

func (app *application) loginHandler(w http.ResponseWriter, r *http.Request) {
	err := app.parseForm(w, r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user, err := app.userService.Authenticate(r.Context(), r.PostForm.Get("email"), r.PostForm.Get("password"))
	if err != nil {
		var validationErr common.ValidationError
		switch {
		case errors.Is(err, userservice.ErrNotFound):
			app.setFlash(w, flashUnknownEmail)
			app.redirect(w, r, "/register")
		case errors.Is(err, userservice.ErrAuthenticationFailure):
			data := app.newTemplateData(w, r)
			data.Form = formValues(r, loginFormFields...)
			data.Flash = flashWrongPassword
			app.renderPage(w, r, http.StatusUnauthorized, "login.tmpl", data)
		case errors.As(err, &validationErr):
			data := app.newTemplateData(w, r)
			data.Form = formValues(r, loginFormFields...)
			data.Errors = validationErr.Errors
			app.renderPage(w, r, http.StatusUnprocessableEntity, "login.tmpl", data)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.login(w, r, user)
}

// login starts a session for user and sends the client home.
func (app *application) login(w http.ResponseWriter, r *http.Request, user *userservice.User) {
	session, err := app.userService.Login(r.Context(), user)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.setSessionCookie(w, session)
	app.redirect(w, r, "/")
}

func (app *application) logoutHandler(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err == nil {
		err = app.userService.Logout(r.Context(), cookie.Value)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}
	}

	app.clearSessionCookie(w)
	app.redirect(w, r, "/")
}

func (app *application) showPostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	app.showPost(w, r, id, http.StatusOK, nil)
}

// showPost renders a post with its comments. A non nil errs re-renders the comment form
// with the submitted text.
func (app *application) showPost(w http.ResponseWriter, r *http.Request, id, status int, errs map[string]string) {
	post, err := app.blogService.GetPost(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	comments, err := app.blogService.GetCommentsForPost(r.Context(), id)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	data := app.newTemplateData(w, r)
	data.Post = post
	data.Comments = comments
	if errs != nil {
		data.Form = formValues(r, "comment")
		data.Errors = errs
	}

	app.renderPage(w, r, status, "post.tmpl", data)
}

// commentHandler checks authentication before the form, so an anonymous submission is
// never validated or stored.
func (app *application) commentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	_, err = app.blogService.GetPost(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	user := app.getUserContext(r)
	if user.IsAnonymous() {
		app.setFlash(w, flashLoginToComment)
		app.redirect(w, r, "/login")
		return
	}

	err = app.parseForm(w, r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	_, err = app.blogService.CreateComment(r.Context(), r.PostForm.Get("comment"), user.ID, id)
	if err != nil {
		var validationErr common.ValidationError
		switch {
		case errors.As(err, &validationErr):
			app.showPost(w, r, id, http.StatusUnprocessableEntity, validationErr.Errors)
		case errors.Is(err, blogservice.ErrUserNotFound):
			app.clearSessionCookie(w)
			app.setFlash(w, flashLoginToComment)
			app.redirect(w, r, "/login")
		case errors.Is(err, common.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.redirect(w, r, fmt.Sprintf("/post/%d", id))
}

func (app *application) contactFormHandler(w http.ResponseWriter, r *http.Request) {
	app.renderPage(w, r, http.StatusOK, "contact.tmpl", app.newTemplateData(w, r))
}

func (app *application) contactHandler(w http.ResponseWriter, r *http.Request) {
	err := app.parseForm(w, r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	msg := &mailservice.ContactMessage{
		Name:    r.PostForm.Get("name"),
		Email:   r.PostForm.Get("email"),
		Phone:   r.PostForm.Get("phone"),
		Message: r.PostForm.Get("message"),
	}

	err = app.mailService.SendContactMessage(r.Context(), msg)
	if err != nil {
		var validationErr common.ValidationError
		switch {
		case errors.As(err, &validationErr):
			data := app.newTemplateData(w, r)
			data.Form = formValues(r, contactFormFields...)
			data.Errors = validationErr.Errors
			app.renderPage(w, r, http.StatusUnprocessableEntity, "contact.tmpl", data)
		default:
			app.logError(r, err)
			app.setFlash(w, flashMessageFailed)
			app.redirect(w, r, "/contact")
		}
		return
	}

	app.setFlash(w, flashMessageSent)
	app.redirect(w, r, "/contact")
}

func (app *application) newPostFormHandler(w http.ResponseWriter, r *http.Request) {
	data := app.newTemplateData(w, r)
	data.FormAction = "/new-post"

	app.renderPage(w, r, http.StatusOK, "make-post.tmpl", data)
}

func postInput(r *http.Request) *blogservice.PostInput {
	return &blogservice.PostInput{
		Title:    r.PostForm.Get("title"),
		Subtitle: r.PostForm.Get("subtitle"),
		Author:   r.PostForm.Get("author"),
		ImgURL:   r.PostForm.Get("img_url"),
		Body:     r.PostForm.Get("body"),
	}
}

func (app *application) newPostHandler(w http.ResponseWriter, r *http.Request) {
	err := app.parseForm(w, r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	_, err = app.blogService.CreatePost(r.Context(), postInput(r))
	if err != nil {
		app.postFormError(w, r, err, "/new-post", nil)
		return
	}

	app.redirect(w, r, "/")
}

func (app *application) editPostFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	post, err := app.blogService.GetPost(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	data := app.newTemplateData(w, r)
	data.Post = post
	data.FormAction = fmt.Sprintf("/edit-post/%d", post.ID)
	data.Form = map[string]string{
		"title":    post.Title,
		"subtitle": post.Subtitle,
		"author":   post.Author,
		"img_url":  post.ImgURL,
		"body":     post.Body,
	}

	app.renderPage(w, r, http.StatusOK, "make-post.tmpl", data)
}

func (app *application) editPostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.parseForm(w, r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	post, err := app.blogService.UpdatePost(r.Context(), id, postInput(r))
	if err != nil {
		app.postFormError(w, r, err, fmt.Sprintf("/edit-post/%d", id), &blogservice.Post{ID: id})
		return
	}

	app.redirect(w, r, fmt.Sprintf("/post/%d", post.ID))
}

// postFormError re-renders the post editor for validation and duplicate title errors.
func (app *application) postFormError(w http.ResponseWriter, r *http.Request, err error, action string, post *blogservice.Post) {
	var validationErr common.ValidationError
	errs := map[string]string{}

	switch {
	case errors.As(err, &validationErr):
		errs = validationErr.Errors
	case errors.Is(err, blogservice.ErrDuplicateTitle):
		errs["title"] = "a post with this title already exists"
	case errors.Is(err, common.ErrRecordNotFound):
		app.notFoundResponse(w, r)
		return
	default:
		app.serverErrorResponse(w, r, err)
		return
	}

	data := app.newTemplateData(w, r)
	data.Post = post
	data.FormAction = action
	data.Form = formValues(r, postFormFields...)
	data.Errors = errs

	app.renderPage(w, r, http.StatusUnprocessableEntity, "make-post.tmpl", data)
}

func (app *application) deletePostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.blogService.DeletePost(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.redirect(w, r, "/")
}

func (app *application) renderPage(w http.ResponseWriter, r *http.Request, status int, page string, data *templateData) {
	err := app.render(w, status, page, data)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
