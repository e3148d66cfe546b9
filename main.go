package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"kommunity/controllers"
	"kommunity/driver"
	"kommunity/store"
)

var db *sql.DB

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}
	secret := os.Getenv("SECRET")
	if secret == "" {
		log.Fatal("SECRET variable is not set")
	}
	db = driver.ConnectDB()
	defer db.Close()

	docs := store.NewDocumentStore(db)
	if err := docs.Ensure(store.PostsDocument); err != nil {
		log.Fatal("Could not ensure posts document:", err)
	}

	controller := controllers.Controller{}
	postController := controllers.NewPostController(docs)
	searchController := controllers.SearchController{}
	attendanceController := controllers.AttendanceController{}
	financeController := controllers.FinanceController{}
	photoController := controllers.PhotoController{}
	auth := controller.SessionMiddleware

	router := mux.NewRouter()

	router.HandleFunc("/signup", controller.Signup(db)).Methods("POST")
	router.HandleFunc("/login", controller.Login(db)).Methods("POST")
	router.HandleFunc("/logout", controller.Logout).Methods("POST")
	router.HandleFunc("/me", auth(controller.GetMe(db))).Methods("GET")

	router.HandleFunc("/feed", auth(postController.GetFeed())).Methods("GET")
	router.HandleFunc("/posts", auth(postController.CreatePost(db))).Methods("POST")
	router.HandleFunc("/posts/{date}/{id}/availability", auth(postController.ToggleAvailability())).Methods("PATCH")
	router.HandleFunc("/posts/{date}/{id}/volunteer", auth(postController.ToggleVolunteer())).Methods("PATCH")
	router.HandleFunc("/posts/{date}/{id}/image", auth(postController.UploadPostImage())).Methods("POST")
	router.HandleFunc("/posts/{date}/{id}", auth(postController.DeletePost())).Methods("DELETE")

	router.HandleFunc("/users/search", auth(searchController.SearchUsers(db))).Methods("GET")
	router.HandleFunc("/users/{id}/feed", auth(postController.GetUserFeed())).Methods("GET")

	router.HandleFunc("/attendance", auth(attendanceController.GetAttendance(db))).Methods("GET")
	router.HandleFunc("/attendance/mock", auth(attendanceController.GenerateMock(db))).Methods("POST")
	router.HandleFunc("/finance", auth(financeController.GetFinance(db))).Methods("GET")

	router.HandleFunc("/me/avatar", auth(photoController.UploadAvatar(db))).Methods("POST")
	router.HandleFunc("/photos/{folder}", auth(photoController.ResolvePhoto())).Methods("GET")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	log.Println("Server started on port " + port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
